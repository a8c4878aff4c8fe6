package service

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Harshrb2424/jntuh-mcp-server/config"
	"github.com/Harshrb2424/jntuh-mcp-server/model"
)

// ArtifactRegistry tracks the artifacts produced during this process's
// lifetime. The documents themselves live with the publisher; the registry
// only records what was generated, capped so an unattended instance
// doesn't grow without bound.
type ArtifactRegistry struct {
	mu           sync.RWMutex
	artifacts    map[string]*model.ResultArtifact
	maxArtifacts int // 0 = unlimited
}

func NewArtifactRegistry(cfg *config.StoreConfig) *ArtifactRegistry {
	maxArtifacts := cfg.MaxArtifacts
	if maxArtifacts < 0 {
		maxArtifacts = 0
	}
	return &ArtifactRegistry{
		artifacts:    make(map[string]*model.ResultArtifact),
		maxArtifacts: maxArtifacts,
	}
}

func (r *ArtifactRegistry) Add(artifact *model.ResultArtifact) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.artifacts[artifact.ID] = artifact
	r.cleanupIfNeeded()
}

func (r *ArtifactRegistry) Get(id string) *model.ResultArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.artifacts[id]
}

// List returns all recorded artifacts, newest first.
func (r *ArtifactRegistry) List() []*model.ResultArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.ResultArtifact, 0, len(r.artifacts))
	for _, a := range r.artifacts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *ArtifactRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.artifacts)
}

// cleanupIfNeeded drops the oldest records once the cap is exceeded.
// Must be called with the write lock held.
func (r *ArtifactRegistry) cleanupIfNeeded() {
	if r.maxArtifacts <= 0 {
		return
	}
	if len(r.artifacts) <= r.maxArtifacts {
		return
	}

	artifacts := make([]*model.ResultArtifact, 0, len(r.artifacts))
	for _, a := range r.artifacts {
		artifacts = append(artifacts, a)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.Before(artifacts[j].CreatedAt)
	})

	removeCount := len(artifacts) - r.maxArtifacts
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting old artifact record",
			"artifact_id", artifacts[i].ID,
			"created_at", artifacts[i].CreatedAt,
		)
		delete(r.artifacts, artifacts[i].ID)
	}
}
