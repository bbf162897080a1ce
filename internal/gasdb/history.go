package gasdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	deleteBatchSize    = 1000
	deleteRecordsPause = 50
)

// SavePrices upserts stations by id and snapshots by (station, date) in a
// single transaction.
func (s *Storage) SavePrices(ctx context.Context, stations []Station, snapshots []Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("Rollback failed", "error", err)
		}
	}()

	stationStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO stations (`+stationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stationStmt.Close()

	for i := range stations {
		st := &stations[i]
		_, err := stationStmt.ExecContext(ctx,
			st.ID, st.Rotulo, st.Horario,
			priceArg(st.Diesel), priceArg(st.DieselExtra), priceArg(st.Gasoline95), priceArg(st.Gasoline98),
			st.Direccion, st.Provincia, st.Localidad, st.CP, st.Longitud, st.Latitud,
			st.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("error inserting station %d: %w", st.ID, err)
		}
	}

	snapshotStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_history (
			id_ss, fecha, precio_diesel, precio_diesel_extra, precio_gasolina_95, precio_gasolina_98
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer snapshotStmt.Close()

	for i := range snapshots {
		sn := &snapshots[i]
		_, err := snapshotStmt.ExecContext(ctx,
			sn.StationID, sn.Date,
			priceArg(sn.Diesel), priceArg(sn.DieselExtra), priceArg(sn.Gasoline95), priceArg(sn.Gasoline98))
		if err != nil {
			return fmt.Errorf("error inserting snapshot %d/%s: %w", sn.StationID, sn.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	s.log.Debug("Saved prices", "stations", len(stations), "snapshots", len(snapshots))
	return nil
}

// SaveSnapshots upserts snapshots only. The stations table is left as is, so
// importing a past day never replaces current prices.
func (s *Storage) SaveSnapshots(ctx context.Context, snapshots []Snapshot) error {
	return s.SavePrices(ctx, nil, snapshots)
}

// SnapshotsByDate fetches the snapshots recorded on date for the given
// stations with a single query.
func (s *Storage) SnapshotsByDate(ctx context.Context, date time.Time, ids []int64) ([]Snapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, date.Format(DateLayout))
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	rows, err := s.db.QueryContext(ctx, `
		SELECT id_ss, fecha, precio_diesel, precio_diesel_extra, precio_gasolina_95, precio_gasolina_98
		FROM price_history
		WHERE fecha = ? AND id_ss IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// History returns every snapshot of a station, oldest first.
func (s *Storage) History(ctx context.Context, stationID int64) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id_ss, fecha, precio_diesel, precio_diesel_extra, precio_gasolina_95, precio_gasolina_98
		FROM price_history
		WHERE id_ss = ?
		ORDER BY fecha ASC`, stationID)
	if err != nil {
		return nil, fmt.Errorf("error querying history: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	snapshots := []Snapshot{}
	for rows.Next() {
		var (
			sn Snapshot
			np nullPrices
		)
		dest := append([]any{&sn.StationID, &sn.Date}, np.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning snapshot: %w", err)
		}
		sn.Prices = np.prices()
		snapshots = append(snapshots, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error: %w", err)
	}
	return snapshots, nil
}

// GetAllDates returns every date with at least one snapshot, sorted ascending.
func (s *Storage) GetAllDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT fecha FROM price_history ORDER BY fecha ASC")
	if err != nil {
		return nil, fmt.Errorf("error querying dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, fmt.Errorf("error scanning date: %w", err)
		}
		date, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error: %w", err)
	}
	return dates, nil
}

// DeleteOldRecords removes snapshots dated before now minus daysOld days.
// Rows go in batches of deleteBatchSize with a short pause between them.
func (s *Storage) DeleteOldRecords(ctx context.Context, daysOld int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -daysOld).Format(DateLayout)

	s.log.Info("Starting cleanup of old records", "cutoff_date", cutoffDate)

	var deletedCount int64
	for {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM price_history WHERE ROWID IN (
				SELECT ROWID FROM price_history WHERE fecha < ? LIMIT ?
			)`, cutoffDate, deleteBatchSize)
		if err != nil {
			return deletedCount, fmt.Errorf("error deleting price_history records: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deletedCount, fmt.Errorf("error reading affected rows: %w", err)
		}
		deletedCount += n
		if n < deleteBatchSize {
			break
		}

		s.log.Debug("Deleted price_history records", "count", deletedCount)
		select {
		case <-ctx.Done():
			return deletedCount, ctx.Err()
		case <-time.After(deleteRecordsPause * time.Millisecond):
		}
	}

	s.log.Info("Completed price_history cleanup", "deleted_count", deletedCount)
	return deletedCount, nil
}
