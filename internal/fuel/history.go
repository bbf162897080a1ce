package fuel

import (
	"context"
	"fmt"

	"github.com/rubiojr/gasfinder/internal/gasdb"
)

// History returns a station's daily snapshots, oldest first.
func (s *Service) History(ctx context.Context, stationID int64) ([]gasdb.Snapshot, error) {
	if stationID <= 0 {
		return nil, fmt.Errorf("%w: station id must be positive", ErrInvalidArgument)
	}
	return s.store.History(ctx, stationID)
}
