package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndList(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "history.db"))
	defer s.Close()

	s.Save(Message{SessionID: "s1", Role: "user", Content: "câu hỏi"})
	s.Save(Message{SessionID: "s1", Role: "bot", Content: "câu trả lời"})
	s.Save(Message{SessionID: "s2", Role: "user", Content: "khác"})

	msgs := s.List("s1")
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "câu hỏi", msgs[0].Content)
	require.Equal(t, "bot", msgs[1].Role)
	require.False(t, msgs[0].CreatedAt.IsZero())

	require.Empty(t, s.List("unknown"))
}

func TestMemoryFallback(t *testing.T) {
	// An unwritable path forces the in-memory fallback.
	s := Open(filepath.Join(t.TempDir(), "missing-dir", "history.db"))
	defer s.Close()

	s.Save(Message{SessionID: "s1", Role: "user", Content: "hi"})
	msgs := s.List("s1")
	require.Len(t, msgs, 1)
	require.Equal(t, "hi", msgs[0].Content)
}
