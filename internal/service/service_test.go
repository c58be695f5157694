package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	m, _ := event.(map[string]any)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (p *fakePublisher) byType(typ string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeEngine struct {
	ids     []uint
	total   int64
	err     error
	indexed []search.Document
	deleted []uint
}

func (f *fakeEngine) Search(context.Context, string, int, int) (int64, []uint, error) {
	return f.total, f.ids, f.err
}

func (f *fakeEngine) Index(_ context.Context, d search.Document) error {
	f.indexed = append(f.indexed, d)
	return nil
}

func (f *fakeEngine) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type env struct {
	repo   *repo.GormRepo
	events *fakePublisher
	cat    models.Category
	p1     models.Product
	p2     models.Product
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := dbtest.Open(t)
	e := &env{repo: repo.New(gdb), events: &fakePublisher{}}

	e.cat = models.Category{Name: "Kitchen"}
	require.NoError(t, gdb.Create(&e.cat).Error)
	e.p1 = models.Product{CategoryID: e.cat.ID, Name: "Kettle", Description: "steel kettle", Price: decimal.RequireFromString("10.00")}
	require.NoError(t, gdb.Create(&e.p1).Error)
	e.p2 = models.Product{CategoryID: e.cat.ID, Name: "Mug", Description: "ceramic", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, gdb.Create(&e.p2).Error)
	return e
}

func (e *env) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Username: name, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, e.repo.DB.Create(&u).Error)
	return u
}

var errBroker = errors.New("broker down")
