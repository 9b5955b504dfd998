package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type startResponse struct {
	SessionId string `json:"session_id"`
	Question  string `json:"question"`
}

type submitResponse struct {
	Status       string            `json:"status"`
	NextQuestion string            `json:"next_question"`
	Progress     string            `json:"progress"`
	Profile      map[string]string `json:"profile"`
}

// cannedAnswers drive the non-interactive run.
var cannedAnswers = map[string]string{
	"name":         "Ada Lovelace",
	"email":        "ada@example.com",
	"phone":        "+44 20 7946 0018",
	"startup_name": "Analytical Engines",
}

var client = &http.Client{Timeout: 30 * time.Second}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api/profile/v1", "profile API base URL")
	auto := flag.Bool("auto", false, "answer from a canned profile instead of stdin")
	flag.Parse()

	title := color.New(color.FgCyan, color.Bold)
	ask := color.New(color.FgYellow)
	bad := color.New(color.FgRed)
	good := color.New(color.FgGreen, color.Bold)

	title.Println("=== Profile Collection Simulation Client ===")

	var started startResponse
	if err := call(*baseURL+"/start", nil, &started); err != nil {
		bad.Printf("Failed to start session: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Session: %s\n", started.SessionId)

	stdin := bufio.NewScanner(os.Stdin)
	question := started.Question
	for {
		ask.Printf("\n%s? ", question)

		answer := ""
		if *auto {
			answer = cannedAnswers[question]
			if answer == "" {
				answer = "n/a for " + question
			}
			fmt.Println(answer)
		} else {
			if !stdin.Scan() {
				return
			}
			answer = stdin.Text()
		}

		var res submitResponse
		err := call(*baseURL+"/submit", map[string]string{
			"session_id": started.SessionId,
			"question":   question,
			"answer":     answer,
		}, &res)
		if err != nil {
			bad.Printf("  %v\n", err)
			if *auto {
				return
			}
			continue
		}

		if res.Status == "complete" {
			good.Printf("\nProfile complete (%s)\n", res.Progress)
			prettyPrint(res.Profile)
			return
		}

		color.New(color.Faint).Printf("  progress %s\n", res.Progress)
		question = res.NextQuestion
	}
}

func call(url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("API Error %d: undecodable body", resp.StatusCode)
	}
	if !env.Success {
		return fmt.Errorf("API Error %d: %s", resp.StatusCode, env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(strings.TrimSpace(string(b)))
}
