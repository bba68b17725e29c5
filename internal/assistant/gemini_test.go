package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply   string
	err     error
	history []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		f.history = append(f.history, string(p.(genai.Text)))
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(f.reply)}},
		}},
	}, nil
}

func newTestGemini(chats *[]*fakeChat, reply string, err error) *Gemini {
	return &Gemini{
		startChat: func() chat {
			c := &fakeChat{reply: reply, err: err}
			*chats = append(*chats, c)
			return c
		},
		chats: make(map[string]chat),
	}
}

func TestGemini_SessionPerConversation(t *testing.T) {
	var started []*fakeChat
	g := newTestGemini(&started, " Halo! ", nil)
	ctx := context.Background()

	answer, err := g.Complete(ctx, "a", "hai")
	require.NoError(t, err)
	assert.Equal(t, "Halo!", answer)

	_, err = g.Complete(ctx, "a", "apa kabar")
	require.NoError(t, err)
	_, err = g.Complete(ctx, "b", "hai")
	require.NoError(t, err)

	require.Len(t, started, 2)
	assert.Equal(t, []string{"hai", "apa kabar"}, started[0].history)
	assert.Equal(t, []string{"hai"}, started[1].history)
}

func TestGemini_Reset(t *testing.T) {
	var started []*fakeChat
	g := newTestGemini(&started, "ok", nil)
	ctx := context.Background()

	_, err := g.Complete(ctx, "a", "satu")
	require.NoError(t, err)
	g.Reset("a")
	_, err = g.Complete(ctx, "a", "dua")
	require.NoError(t, err)

	require.Len(t, started, 2)
	assert.Equal(t, []string{"dua"}, started[1].history)
}

func TestGemini_Errors(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		err           error
		expectedError error
	}{
		{name: "Send failure", err: errors.New("quota exceeded"), expectedError: errors.New("quota exceeded")},
		{name: "Empty response", reply: "  ", expectedError: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var started []*fakeChat
			g := newTestGemini(&started, tt.reply, tt.err)

			_, err := g.Complete(context.Background(), "a", "hai")

			assert.ErrorContains(t, err, tt.expectedError.Error())
		})
	}
}

func TestGetText(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		expected string
	}{
		{name: "Nil response", resp: nil, expected: ""},
		{name: "No candidates", resp: &genai.GenerateContentResponse{}, expected: ""},
		{
			name: "Joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Halo, "), genai.Blob{MIMEType: "image/png"}, genai.Text("teman!")}},
			}}},
			expected: "Halo, teman!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getText(tt.resp))
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
