package track

import (
	"context"
	"errors"
	"testing"

	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types"
	"github.com/rabbitmq/amqp091-go"
)

type recordingService struct {
	TrackApi
	player string
	got    *metadata.Metadata
}

func (s *recordingService) HandleTrackChanged(ctx context.Context, player string, m *metadata.Metadata) (*metadata.Metadata, error) {
	s.player = player
	s.got = m
	return m, nil
}

func TestChangedMessageHandler(t *testing.T) {
	m := metadata.New()
	m.SetTitle("Song")
	m.SetTrackNumber(3)

	tests := []struct {
		name       string
		body       string
		wantPlayer string
		wantCalled bool
	}{
		{
			name:       "valid",
			body:       `{"player": "vlc", "metadata": ` + jsonString(m.String()) + `}`,
			wantPlayer: "vlc",
			wantCalled: true,
		},
		{
			name:       "default player",
			body:       `{"metadata": ` + jsonString(m.String()) + `}`,
			wantPlayer: DefaultPlayer,
			wantCalled: true,
		},
		{name: "bad json", body: `{`},
		{name: "short text", body: `{"player": "vlc", "metadata": "a\nb\n"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &recordingService{}
			h := changedMessageHandler{newService: func(ctx context.Context) (TrackApi, error) { return svc, nil }}

			h.HandleMessage(context.Background(), amqp091.Delivery{RoutingKey: types.TopicTrackChanged, Body: []byte(tt.body)})

			if (svc.got != nil) != tt.wantCalled {
				t.Fatalf("service called = %v, want %v", svc.got != nil, tt.wantCalled)
			}

			if !tt.wantCalled {
				return
			}

			if svc.player != tt.wantPlayer {
				t.Errorf("player = %s, want %s", svc.player, tt.wantPlayer)
			}

			if svc.got.String() != m.String() {
				t.Errorf("metadata = %q, want %q", svc.got.String(), m.String())
			}
		})
	}
}

func TestChangedMessageHandlerServiceError(t *testing.T) {
	h := changedMessageHandler{newService: func(ctx context.Context) (TrackApi, error) {
		return nil, errors.New("no service")
	}}

	// must not panic
	h.HandleMessage(context.Background(), amqp091.Delivery{Body: []byte(`{"metadata": "\n\n\n-1\n\n\n0\n"}`)})
}

func jsonString(s string) string {
	out := []byte{'"'}
	for _, c := range []byte(s) {
		switch c {
		case '\n':
			out = append(out, '\\', 'n')
		case '"', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}

	return string(append(out, '"'))
}
