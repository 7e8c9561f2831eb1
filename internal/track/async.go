package track

import (
	"context"
	"encoding/json"

	"github.com/lostact/osdlyrics/internal/rabbitmq"
	"github.com/lostact/osdlyrics/pkg/metadata"
	"github.com/lostact/osdlyrics/pkg/types"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type changedMessageHandler struct {
	newService func(ctx context.Context) (TrackApi, error)
}

func (h changedMessageHandler) HandleMessage(ctx context.Context, msg amqp091.Delivery) {
	log.Info().Msg("Received track changed message")
	var changedMsg types.TrackChangedMessage

	err := json.Unmarshal(msg.Body, &changedMsg)
	if err != nil {
		log.Err(err).Msg("failed to unmarshal track changed message")
		return
	}

	player := changedMsg.Player
	if player == "" {
		player = DefaultPlayer
	}

	m := metadata.New()
	err = m.Deserialize(changedMsg.Metadata)
	if err != nil {
		log.Err(err).Msgf("cannot process track changed message for player %s", player)
		return
	}

	trackService, err := h.newService(ctx)
	if err != nil {
		log.Err(err).Msgf("cannot process track changed message for player %s", player)
		return
	}

	_, err = trackService.HandleTrackChanged(ctx, player, m)
	if err != nil {
		log.Err(err).Msgf("failed to handle track change for player %s", player)
		return
	}

	log.Info().Msg("Handled track changed message")
}

func init() {
	rabbitmq.RegisterConsumer(changedMessageHandler{newService: NewTrackService}.HandleMessage, types.TopicTrackChanged)
}
