package canned

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceIsDeterministicForSeed(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.Stats(), b.Stats())
		require.Equal(t, a.RandomQuote(), b.RandomQuote())
		require.Equal(t, a.AbsurdTask(), b.AbsurdTask())
		require.Equal(t, a.Race(), b.Race())
	}
}

func TestPicksComeFromFixedSets(t *testing.T) {
	s := NewSource(1)

	for i := 0; i < 50; i++ {
		require.Contains(t, Races, s.Race())
		require.Contains(t, AbsurdTasks, s.AbsurdTask())

		n := s.LuckyNumber()
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 100)

		stats := s.Stats()
		require.Contains(t, statsPayloads, stats)
	}
}

func TestFakeChampionStats(t *testing.T) {
	s := NewSource(7)

	payload := s.FakeChampionStats()
	require.Len(t, payload.Champions, 5)
	require.Equal(t, "0%", payload.Reliability)

	seen := map[string]bool{}
	for _, cs := range payload.Champions {
		require.Contains(t, champions, cs.Champion)
		require.False(t, seen[cs.Champion], "champions must be distinct")
		seen[cs.Champion] = true
		require.True(t, strings.HasSuffix(cs.WinRate, "%"))
	}
}

func TestFeedbackResponseShape(t *testing.T) {
	s := NewSource(3)

	for i := 0; i < 20; i++ {
		ack := s.FeedbackResponse()
		require.Contains(t, feedbackAcks, ack.Message)
		require.Regexp(t, `^FB-\d{5}$`, ack.FeedbackID)
		require.Equal(t, "ignored_successfully", ack.Status)
	}
}

func TestStatusVariants(t *testing.T) {
	s := NewSource(9)

	variants := map[string]bool{}
	for i := 0; i < 40; i++ {
		variants[s.Status().Status] = true
	}
	require.Len(t, variants, 2)
}
