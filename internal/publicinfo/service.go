// Package publicinfo fetches the read-only content shown on the public
// pages. The backend wraps payloads inconsistently; every fetcher goes
// through the same normalizers so callers always get the bare value.
package publicinfo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/models"
)

// Resource paths relative to the public base URL
const (
	TeamPath       = "/team"
	NewsPath       = "/news"
	ServicesPath   = "/services"
	ProjectsPath   = "/projects"
	TrafficPath    = "/traffic"
	StatisticsPath = "/stats"
)

// Service fetches public content
type Service struct {
	client *apiclient.Client
	log    zerolog.Logger
}

// New creates a service on top of a client pointed at the public base URL
func New(client *apiclient.Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

// Team returns the team members
func (s *Service) Team(ctx context.Context) ([]models.TeamMember, error) {
	return fetchList[models.TeamMember](ctx, s, TeamPath, "team")
}

// News returns the news feed
func (s *Service) News(ctx context.Context) ([]models.NewsItem, error) {
	return fetchList[models.NewsItem](ctx, s, NewsPath, "news")
}

// Services returns the offered services
func (s *Service) Services(ctx context.Context) ([]models.Service, error) {
	return fetchList[models.Service](ctx, s, ServicesPath, "services")
}

// Projects returns the projects
func (s *Service) Projects(ctx context.Context) ([]models.Project, error) {
	return fetchList[models.Project](ctx, s, ProjectsPath, "projects")
}

// Traffic returns traffic light aggregates, or nil when the backend has none
func (s *Service) Traffic(ctx context.Context) (*models.Traffic, error) {
	raw, err := s.fetch(ctx, TrafficPath)
	if err != nil {
		return nil, err
	}
	v, err := decodeObject[models.Traffic](TrafficPath, raw, []string{"traffic"}, models.TrafficFields)
	s.logShape(TrafficPath, err)
	return v, err
}

// Statistics returns the yearly indicators, or nil when the backend has none.
// {"stats": {...}}, {"statistics": {...}} and a bare object are equivalent.
func (s *Service) Statistics(ctx context.Context) (*models.Statistics, error) {
	raw, err := s.fetch(ctx, StatisticsPath)
	if err != nil {
		return nil, err
	}
	v, err := decodeObject[models.Statistics](StatisticsPath, raw, []string{"stats", "statistics"}, models.StatisticsFields)
	s.logShape(StatisticsPath, err)
	return v, err
}

// Home is the content of the main page
type Home struct {
	News     []models.NewsItem
	Projects []models.Project
	Services []models.Service
}

// Home fetches the main page content concurrently. A transport or
// rejection failure of any part fails the whole page; shape mismatches
// are returned joined alongside the partial content.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	var (
		home                              Home
		newsErr, projectsErr, servicesErr error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		home.News, newsErr = s.News(gCtx)
		return hardError(newsErr)
	})
	g.Go(func() error {
		home.Projects, projectsErr = s.Projects(gCtx)
		return hardError(projectsErr)
	})
	g.Go(func() error {
		home.Services, servicesErr = s.Services(gCtx)
		return hardError(servicesErr)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &home, errors.Join(newsErr, projectsErr, servicesErr)
}

// hardError drops shape mismatches so they do not cancel sibling fetches
func hardError(err error) error {
	if apiclient.IsShape(err) {
		return nil
	}
	return err
}

func (s *Service) fetch(ctx context.Context, path string) ([]byte, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, path, &raw); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Fetch failed")
		return nil, err
	}
	return raw, nil
}

func (s *Service) logShape(path string, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Unrecognized response shape")
	}
}

func fetchList[T any](ctx context.Context, s *Service, path, key string) ([]T, error) {
	raw, err := s.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](path, key, raw)
	s.logShape(path, err)
	return items, err
}
