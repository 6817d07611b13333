package store

// Statistics summarizes the stored history for interactive display.
type Statistics struct {
	TotalRecords     int            `json:"total_records"`
	ByKind           map[string]int `json:"by_kind"`
	TemplateCount    int            `json:"template_count"`
	RecentPerDay     map[string]int `json:"recent_per_day"`
	MeanPayloadBytes float64        `json:"mean_payload_bytes"`
}

// Statistics computes history totals, per-kind and recent per-day counts
// (last 7 days) and the mean payload length. Partial failures leave the
// affected field at its zero value.
func (s *Store) Statistics() Statistics {
	stats := Statistics{
		ByKind:       map[string]int{},
		RecentPerDay: map[string]int{},
	}
	if !s.ready() {
		return stats
	}

	if err := s.db.Raw(`SELECT COUNT(*) FROM qrcodes`).Scan(&stats.TotalRecords).Error; err != nil {
		s.log.Error("counting records", "error", err)
	}
	if err := s.db.Raw(`SELECT COUNT(*) FROM templates`).Scan(&stats.TemplateCount).Error; err != nil {
		s.log.Error("counting templates", "error", err)
	}

	rows, err := s.db.Raw(`SELECT qr_type, COUNT(*) FROM qrcodes GROUP BY qr_type`).Rows()
	if err != nil {
		s.log.Error("counting records by kind", "error", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var kind string
			var n int
			if err := rows.Scan(&kind, &n); err != nil {
				continue
			}
			stats.ByKind[kind] = n
		}
	}

	recent, err := s.db.Raw(`
		SELECT DATE(created_at), COUNT(*) FROM qrcodes
		WHERE DATE(created_at) >= DATE('now', '-7 days')
		GROUP BY DATE(created_at)`).Rows()
	if err != nil {
		s.log.Error("counting recent records", "error", err)
	} else {
		defer recent.Close()
		for recent.Next() {
			var day string
			var n int
			if err := recent.Scan(&day, &n); err != nil {
				continue
			}
			stats.RecentPerDay[day] = n
		}
	}

	var mean *float64
	if err := s.db.Raw(`SELECT AVG(LENGTH(data)) FROM qrcodes`).Scan(&mean).Error; err != nil {
		s.log.Error("averaging payload length", "error", err)
	} else if mean != nil {
		stats.MeanPayloadBytes = *mean
	}

	return stats
}
