package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/studyalong/recommender/internal/domain"
	"github.com/studyalong/recommender/internal/domain/catalog"
	"github.com/studyalong/recommender/internal/domain/document"
)

var testCourses = []catalog.Course{
	{ID: "c1", Title: "Introduction to Blockchain Technology", Description: "Distributed ledgers, consensus mechanisms and basic cryptography.", Level: "BEGINNER", Category: "BLOCKCHAIN"},
	{ID: "c2", Title: "Advanced Smart Contract Development", Description: "Build secure smart contracts with Solidity best practices.", Level: "ADVANCED", Category: "DEVELOPMENT"},
	{ID: "c3", Title: "Web3 User Interface Design", Description: "Engaging user interfaces for decentralized applications.", Level: "INTERMEDIATE", Category: "DESIGN"},
	{ID: "c4", Title: "DeFi Fundamentals", Description: "Lending protocols, automated market makers and yield farming.", Level: "BEGINNER", Category: "FINANCE"},
}

var testVibes = []catalog.VibeProfile{
	{
		Tag:         "lofi_pomodoro_night",
		Parameters:  catalog.VibeParameters{Sound: "lofi", Rhythm: "pomodoro", Time: "night"},
		Description: "A focused night owl who enjoys lo-fi beats and works in structured Pomodoro sprints. Perfect for late-night coding sessions and deep work.",
	},
	{
		Tag:         "classical_marathon_morning",
		Parameters:  catalog.VibeParameters{Sound: "classical", Rhythm: "marathon", Time: "morning"},
		Description: "An early bird who achieves deep focus in long, uninterrupted sessions with classical music. Great for comprehensive learning.",
	},
	{
		Tag:         "silence_marathon_night",
		Parameters:  catalog.VibeParameters{Sound: "silence", Rhythm: "marathon", Time: "night"},
		Description: "A late-night studier who prefers absolute silence for long, deep work sessions. Perfect for intensive problem-solving.",
	},
}

// axisEmbedder maps text onto one dimension per axis word it contains.
type axisEmbedder struct {
	axes  []string
	err   error
	calls atomic.Int32
}

func newAxisEmbedder(axes ...string) *axisEmbedder {
	return &axisEmbedder{axes: axes}
}

func (e *axisEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls.Add(1)
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.axes))
	for i, a := range e.axes {
		vec[i] = float32(strings.Count(lower, a))
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(strings.Fields(text))}, nil
}

// fixedEmbedder returns the same vector for every text.
type fixedEmbedder struct{ vec []float32 }

func (e fixedEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: e.vec}, nil
}

var errProvider = errors.New("provider down")

func failingCandidate[T any](s Strategy, err error) Candidate[T] {
	return Candidate[T]{
		Strategy: s,
		Build: func(context.Context, []document.Document[T]) (Index[T], error) {
			return nil, err
		},
	}
}

func hitIDs[T any](hits []Hit[T]) []string {
	ids := make([]string, len(hits))
	for i := range hits {
		ids[i] = hits[i].Document.ID()
	}
	return ids
}
