package pipeline

import "github.com/evrgames/metapipe/internal/models"

// Join reconciles the client and server views of the same reported error
// with an inner equality join on error_id.
//
// Multiplicity is a full cross product: when k client rows and m server rows
// share one error_id, the result holds k*m incidents, one per pairing. Rows
// whose error_id appears on only one side are dropped. Output order is client
// order, then server order within one client row.
//
// The projection is by field name: the server-side timestamp is discarded as
// the duplicate of the client-side one, and both descriptions are carried
// under their own names.
func Join(clients []models.ClientRecord, servers []models.ServerRecord) []models.Incident {
	byError := make(map[string][]models.ServerRecord, len(servers))
	for _, s := range servers {
		byError[s.ErrorID] = append(byError[s.ErrorID], s)
	}

	var incidents []models.Incident
	for _, c := range clients {
		for _, s := range byError[c.ErrorID] {
			incidents = append(incidents, models.Incident{
				Timestamp:         c.Timestamp.Unix(),
				ErrorID:           c.ErrorID,
				PlayerID:          c.PlayerID,
				ServerDescription: s.Description,
				EventID:           s.EventID,
				ClientDescription: c.Description,
			})
		}
	}
	return incidents
}
