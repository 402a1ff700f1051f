package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: conflict")
)

type Repository interface {
	SaveSnapshot(ctx context.Context, in DeckSnapshot) error
	LoadSnapshot(ctx context.Context) (DeckSnapshot, error)

	AppendHistory(ctx context.Context, in model.HistoryEntry) error
	ListHistory(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, error)
	SummarizeHistory(ctx context.Context, from, to time.Time) ([]model.DaySummary, error)

	CreateTemplate(ctx context.Context, in model.Template) error
	GetTemplate(ctx context.Context, id string) (model.Template, error)
	GetTemplateByName(ctx context.Context, name string) (model.Template, error)
	UpdateTemplate(ctx context.Context, in model.Template) error
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplates(ctx context.Context, filter TemplateListFilter) ([]model.Template, error)

	GetPreferences(ctx context.Context) (model.Preferences, error)
	SavePreferences(ctx context.Context, in model.Preferences) error
}
