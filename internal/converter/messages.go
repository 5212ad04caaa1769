package converter

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/kingdom-core/internal/models"
	"github.com/napolitain/kingdom-core/internal/savegame"
)

// GameStateToProto serializes gs into a wire struct carrying the save format
func GameStateToProto(gs *models.GameState) *structpb.Struct {
	return MapToProto(savegame.Serialize(gs))
}

// ProtoToGameState decodes a wire struct with the save codec, so version
// checks and tolerant reads apply the same as for files.
func ProtoToGameState(s *structpb.Struct) (*models.GameState, error) {
	return savegame.Deserialize(MapFromProto(s))
}
