package fuel

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rubiojr/gasfinder/internal/gasdb"
	"github.com/rubiojr/gasfinder/internal/query"
)

// memStore evaluates conditions in memory with query.Conditions.Match.
type memStore struct {
	stations  []gasdb.Station
	snapshots []gasdb.Snapshot
	err       error

	mu            sync.Mutex
	snapshotCalls [][]int64
}

func fields(st gasdb.Station) map[query.Field]string {
	return map[query.Field]string{query.Locality: st.Localidad, query.PostalCode: st.CP}
}

func (m *memStore) matching(cs query.Conditions) []gasdb.Station {
	var out []gasdb.Station
	for _, st := range m.stations {
		if cs.Match(fields(st)) {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CP != out[j].CP {
			return out[i].CP < out[j].CP
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memStore) CountStations(_ context.Context, cs query.Conditions) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.matching(cs)), nil
}

func (m *memStore) FindStations(_ context.Context, cs query.Conditions, offset, limit int) ([]gasdb.Station, error) {
	if m.err != nil {
		return nil, m.err
	}
	all := m.matching(cs)
	if offset >= len(all) {
		return []gasdb.Station{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m *memStore) StationPrices(_ context.Context, cs query.Conditions) ([]gasdb.Prices, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []gasdb.Prices
	for _, st := range m.matching(cs) {
		out = append(out, st.Prices)
	}
	return out, nil
}

// Localities returns raw matches in insertion order, duplicates included.
func (m *memStore) Localities(_ context.Context, cs query.Conditions, limit int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []string
	for _, st := range m.stations {
		if len(out) == limit {
			break
		}
		if cs.Match(fields(st)) {
			out = append(out, st.Localidad)
		}
	}
	return out, nil
}

func (m *memStore) SnapshotsByDate(_ context.Context, date time.Time, ids []int64) ([]gasdb.Snapshot, error) {
	m.mu.Lock()
	m.snapshotCalls = append(m.snapshotCalls, append([]int64(nil), ids...))
	m.mu.Unlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	day := date.Format(gasdb.DateLayout)
	var out []gasdb.Snapshot
	for _, sn := range m.snapshots {
		if sn.Date == day && want[sn.StationID] {
			out = append(out, sn)
		}
	}
	return out, nil
}

func (m *memStore) History(_ context.Context, id int64) ([]gasdb.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []gasdb.Snapshot{}
	for _, sn := range m.snapshots {
		if sn.StationID == id {
			out = append(out, sn)
		}
	}
	return out, nil
}
