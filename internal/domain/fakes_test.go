package domain

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/archive/internal/models"
	"github.com/Vovarama1992/archive/internal/ports"
)

type memRepo struct {
	mu        sync.Mutex
	next      int64
	rows      map[int64]models.Resource
	insertErr error
	deleteErr error
	clock     time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]models.Resource{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *memRepo) Insert(_ context.Context, res *models.Resource) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.next++
	r.clock = r.clock.Add(time.Minute)
	res.ID = r.next
	res.CreatedAt = r.clock
	r.rows[res.ID] = *res
	return res, nil
}

func (r *memRepo) List(_ context.Context, f ports.ListFilter) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	q := strings.ToLower(f.Query)
	for _, row := range r.rows {
		if f.Category != "" && row.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(row.Title), q) && !strings.Contains(strings.ToLower(row.Author), q) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, id)
	return nil
}

type memStorage struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	putErrAt  int // fail the n-th PutFile (1-based); 0 never
	puts      int
	deleteErr error
	deleted   []string
}

func newMemStorage() *memStorage { return &memStorage{blobs: map[string][]byte{}} }

func (s *memStorage) PutFile(_ context.Context, key, _ string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErrAt == s.puts {
		return "", errors.New("bucket unavailable")
	}
	s.blobs[key] = body
	return "https://cdn.example.com/storage/v1/object/public/archives/" + key, nil
}

func (s *memStorage) DeleteFiles(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, keys...)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, k := range keys {
		delete(s.blobs, k)
	}
	return nil
}

type fakeThumbs struct {
	err error
}

func (f fakeThumbs) Generate(_ context.Context, _ []byte, _ float64) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

func (f fakeThumbs) GenerateFile(_ context.Context, name string, _ []byte) (string, []byte, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return name + "_thumbnail.png", []byte("\x89PNG fake"), nil
}
