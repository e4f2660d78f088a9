package view

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/models"
)

func TestLoad(t *testing.T) {
	news := []models.NewsItem{{ID: 1, Title: "Road works"}}

	tests := []struct {
		name       string
		data       []models.NewsItem
		err        error
		wantStatus Status
		wantLen    int
		wantMsg    string
	}{
		{name: "ready", data: news, wantStatus: StatusReady, wantLen: 1},
		{name: "ready empty", data: []models.NewsItem{}, wantStatus: StatusReady},
		{
			name:       "shape mismatch",
			data:       []models.NewsItem{},
			err:        apiclient.ShapeError("/news", errors.New("no recognized envelope key")),
			wantStatus: StatusReady,
			wantMsg:    "The server sent data in an unrecognized format",
		},
		{
			name:       "rejected",
			err:        &apiclient.Error{Kind: apiclient.KindRejected, Method: "GET", Path: "/news", Status: http.StatusInternalServerError},
			wantStatus: StatusFailed,
			wantMsg:    "The server refused the request (status 500)",
		},
		{
			name:       "transport",
			err:        &apiclient.Error{Kind: apiclient.KindTransport, Method: "GET", Path: "/news", Err: errors.New("connection refused")},
			wantStatus: StatusFailed,
			wantMsg:    "Could not reach the server",
		},
		{name: "untyped", err: errors.New("boom"), wantStatus: StatusFailed, wantMsg: "Failed to load data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Load(context.Background(), func(context.Context) ([]models.NewsItem, error) {
				return tt.data, tt.err
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, page.Status)
			assert.Len(t, page.Data, tt.wantLen)
			assert.Equal(t, tt.wantMsg, page.Message)
			assert.Equal(t, tt.err, page.Err)
		})
	}
}

func TestLoad_ShapeMismatchIsUnrecognized(t *testing.T) {
	page, err := Load(context.Background(), func(context.Context) ([]models.Project, error) {
		return []models.Project{}, apiclient.ShapeError("/projects", errors.New("not an array"))
	})
	require.NoError(t, err)
	assert.True(t, page.Unrecognized())

	page, err = Load(context.Background(), func(context.Context) ([]models.Project, error) {
		return nil, &apiclient.Error{Kind: apiclient.KindRejected, Status: 404}
	})
	require.NoError(t, err)
	assert.False(t, page.Unrecognized())
}

func TestLoad_CanceledStaysLoading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	page, err := Load(ctx, func(context.Context) ([]models.Service, error) {
		cancel()
		return []models.Service{{ID: 1}}, nil
	})

	require.ErrorIs(t, err, ErrDetached)
	assert.Equal(t, StatusLoading, page.Status)
	assert.Nil(t, page.Data)
}

func TestPage_JSON(t *testing.T) {
	page := Page[[]models.TeamMember]{
		Status:  StatusFailed,
		Err:     errors.New("internal detail"),
		Message: "Could not reach the server",
	}

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed","data":null,"message":"Could not reach the server"}`, string(data))

	assert.Equal(t, StatusLoading, Loading[int]().Status)
}
