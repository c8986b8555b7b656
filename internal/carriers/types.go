package carriers

// Carrier is a delivery company the service can resolve and link out to.
type Carrier struct {
	ID      int64  `dynamodbav:"id"`
	Name    string `dynamodbav:"name"` // PK
	BaseURL string `dynamodbav:"base_url"`
}

// IndexByID builds an id -> Carrier map for response assembly.
func IndexByID(list []Carrier) map[int64]Carrier {
	out := make(map[int64]Carrier, len(list))
	for _, c := range list {
		out[c.ID] = c
	}
	return out
}
