package services

import (
	"context"
	"sort"

	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"
)

// Reported when nothing has been uploaded yet.
const noPopularType = "N/A"

type AnalyticsService interface {
	FileStats(ctx context.Context) (*dto.FileAnalyticsResponse, error)
}

type analyticsService struct {
	fileRepo repositories.FileRepository
}

func NewAnalyticsService(fileRepo repositories.FileRepository) AnalyticsService {
	return &analyticsService{fileRepo: fileRepo}
}

// FileStats counts uploads per MIME category, most frequent first.
func (s *analyticsService) FileStats(ctx context.Context) (*dto.FileAnalyticsResponse, error) {
	counts, err := s.fileRepo.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.ErrStorage(err, "analytics", "Unable to read file statistics")
	}

	resp := &dto.FileAnalyticsResponse{
		MostPopularType: noPopularType,
		ByType:          make([]dto.FileTypeCount, 0, len(counts)),
	}
	for category, n := range counts {
		resp.TotalFiles += n
		resp.ByType = append(resp.ByType, dto.FileTypeCount{Type: category, Count: n})
	}
	sort.Slice(resp.ByType, func(i, j int) bool {
		if resp.ByType[i].Count != resp.ByType[j].Count {
			return resp.ByType[i].Count > resp.ByType[j].Count
		}
		return resp.ByType[i].Type < resp.ByType[j].Type
	})
	if len(resp.ByType) > 0 {
		resp.MostPopularType = resp.ByType[0].Type
	}
	return resp, nil
}
