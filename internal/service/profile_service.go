package service

import (
	"context"
	"fmt"
	"time"

	"ai-agent-platform/internal/dto"
	"ai-agent-platform/pkg/profile"

	"github.com/gofiber/fiber/v2"
)

type IProfileService interface {
	Start(ctx context.Context) (*dto.StartProfileResponse, error)
	Submit(ctx context.Context, req *dto.SubmitProfileRequest) (*dto.SubmitProfileResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.ProfileSessionResponse, error)
	Stats(ctx context.Context) *dto.ProfileStatsResponse
	Evict(ctx context.Context, req *dto.EvictSessionsRequest) (*dto.EvictSessionsResponse, error)
}

// IndexInfo describes the loaded record set for the admin stats endpoint.
type IndexInfo struct {
	Records   int
	Questions int
	Dimension int
}

type profileService struct {
	manager    *profile.Manager
	info       IndexInfo
	staleAfter time.Duration
}

func NewProfileService(manager *profile.Manager, info IndexInfo, staleAfter time.Duration) IProfileService {
	return &profileService{
		manager:    manager,
		info:       info,
		staleAfter: staleAfter,
	}
}

func (s *profileService) Start(ctx context.Context) (*dto.StartProfileResponse, error) {
	started, err := s.manager.Start(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StartProfileResponse{
		SessionId: started.SessionID,
		Question:  started.Question,
	}, nil
}

func (s *profileService) Submit(ctx context.Context, req *dto.SubmitProfileRequest) (*dto.SubmitProfileResponse, error) {
	outcome, err := s.manager.Submit(ctx, req.SessionId, req.Question, req.Answer)
	if err != nil {
		return nil, err
	}

	return &dto.SubmitProfileResponse{
		SessionId:    req.SessionId,
		Status:       string(outcome.Status),
		NextQuestion: outcome.NextQuestion,
		Progress:     outcome.Progress.String(),
		Answered:     outcome.Progress.Answered,
		Total:        outcome.Progress.Total,
		Profile:      outcome.Profile,
	}, nil
}

func (s *profileService) GetSession(ctx context.Context, sessionId string) (*dto.ProfileSessionResponse, error) {
	snap, err := s.manager.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileSessionResponse{
		SessionId:      snap.ID,
		State:          string(snap.State),
		Profile:        snap.Profile,
		AskedQuestions: snap.Asked,
		CreatedAt:      snap.CreatedAt,
		LastActive:     snap.LastActive,
	}, nil
}

func (s *profileService) Stats(ctx context.Context) *dto.ProfileStatsResponse {
	stats := s.manager.Stats()
	return &dto.ProfileStatsResponse{
		Active:         stats.Active,
		Complete:       stats.Complete,
		Records:        s.info.Records,
		Questions:      s.info.Questions,
		IndexDimension: s.info.Dimension,
	}
}

func (s *profileService) Evict(ctx context.Context, req *dto.EvictSessionsRequest) (*dto.EvictSessionsResponse, error) {
	threshold := s.staleAfter
	if req != nil && req.OlderThan != "" {
		d, err := time.ParseDuration(req.OlderThan)
		if err != nil || d < 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid older_than %q", req.OlderThan))
		}
		threshold = d
	}

	evicted := s.manager.EvictStale(ctx, threshold)
	if evicted == nil {
		evicted = []string{}
	}
	return &dto.EvictSessionsResponse{Evicted: evicted}, nil
}
