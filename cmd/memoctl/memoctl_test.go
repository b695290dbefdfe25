package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoboard/internal/memos/bootstrap"
	"memoboard/internal/memos/config"
	"memoboard/internal/memos/domain/entities"
)

type fixture struct {
	cfg *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{cfg: &config.Config{
		Local: config.LocalConfig{
			Driver:     config.LocalDriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "memos.db"),
			Key:        "memos",
		},
	}}
}

func (f *fixture) open(ctx context.Context) (*bootstrap.Services, error) {
	return bootstrap.New(ctx, f.cfg), nil
}

func (f *fixture) seed(t *testing.T, drafts ...entities.Draft) []*entities.Memo {
	t.Helper()
	ctx := context.Background()
	services := bootstrap.New(ctx, f.cfg)
	defer func() { require.NoError(t, services.Close(ctx)) }()

	out := make([]*entities.Memo, 0, len(drafts))
	for _, d := range drafts {
		memo, err := services.Memos.Create(ctx, d)
		require.NoError(t, err)
		out = append(out, memo)
	}
	return out
}

func (f *fixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), f.open, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		entities.Draft{Title: "Groceries", Content: "milk", Category: "personal", Tags: []string{"shop"}},
		entities.Draft{Title: "Sprint review", Content: "demo", Category: "work"},
	)

	out, _, err := f.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Sprint review")
	assert.Contains(t, out, "2 of 2 memos (local storage)")

	out, _, err = f.run("list", "--category", "work")
	require.NoError(t, err)
	assert.NotContains(t, out, "Groceries")
	assert.Contains(t, out, "1 of 2 memos")

	out, _, err = f.run("list", "-q", "SHOP", "--json")
	require.NoError(t, err)
	var decoded struct {
		Memos   []entities.Memo `json:"memos"`
		Storage string          `json:"storage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Memos, 1)
	assert.Equal(t, "Groceries", decoded.Memos[0].Title)
	assert.Equal(t, "local", decoded.Storage)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		entities.Draft{Title: "a", Content: "x", Category: "work"},
		entities.Draft{Title: "b", Content: "x", Category: "work"},
		entities.Draft{Title: "c", Content: "x"},
	)

	out, _, err := f.run("stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 3")
	assert.Contains(t, out, "personal: 1")
	assert.Contains(t, out, "work: 2")
}

func TestShow(t *testing.T) {
	f := newFixture(t)
	memos := f.seed(t, entities.Draft{Title: "Plan", Content: "# Heading\nbody", Tags: []string{"x", "y"}})

	out, _, err := f.run("show", memos[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "title:    Plan")
	assert.Contains(t, out, "tags:     x, y")
	assert.Contains(t, out, "# Heading")

	_, _, err = f.run("show", "missing")
	require.ErrorIs(t, err, entities.ErrNotFound)
	assert.Equal(t, ExitNotFound, exitCode(err))
}

func TestSearchAndCategory(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		entities.Draft{Title: "Paris trip", Content: "louvre", Category: "personal"},
		entities.Draft{Title: "Budget", Content: "q3", Category: "work"},
	)

	out, _, err := f.run("search", "paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris trip")
	assert.NotContains(t, out, "Budget")

	out, _, err = f.run("category", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget")
	assert.NotContains(t, out, "Paris trip")
}

func TestSummarize_Disabled(t *testing.T) {
	f := newFixture(t)
	memos := f.seed(t, entities.Draft{Title: "t", Content: "c"})

	_, _, err := f.run("summarize", memos[0].ID)

	require.Error(t, err)
	assert.Equal(t, ExitSummarization, exitCode(err))
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	f.seed(t, entities.Draft{Title: "t", Content: "c"})

	_, _, err := f.run("clear")
	require.ErrorIs(t, err, ErrClearNotConfirmed)
	assert.Equal(t, ExitValidation, exitCode(err))

	out, _, err := f.run("clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "all memos deleted")

	out, _, err = f.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 0 memos")
}

func TestOpenFailure(t *testing.T) {
	openErr := errors.New("no config")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), func(context.Context) (*bootstrap.Services, error) {
		return nil, openErr
	}, []string{"list"}, &stdout, &stderr)

	require.ErrorIs(t, err, openErr)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&entities.ValidationError{Fields: []string{"title"}}, ExitValidation},
		{entities.ErrNotFound, ExitNotFound},
		{entities.ErrPersistence, ExitPersistence},
		{entities.ErrSummarization, ExitSummarization},
		{errors.New("other"), ExitFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.err.Error())
	}
}
