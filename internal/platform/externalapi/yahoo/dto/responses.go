// Package dto defines data transfer objects for the Yahoo Finance responses.
package dto

// AutocompleteResponse represents the JSON response from the autoc endpoint.
type AutocompleteResponse struct {
	ResultSet struct {
		Query  string `json:"Query"`
		Result []struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Exch     string `json:"exch"`
			Type     string `json:"type"`
			ExchDisp string `json:"exchDisp"`
			TypeDisp string `json:"typeDisp"`
		} `json:"Result"`
	} `json:"ResultSet"`
}

// SearchResponse represents the JSON response from the v1 finance search endpoint.
type SearchResponse struct {
	News []struct {
		UUID                string `json:"uuid"`
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"` // unix seconds
		Type                string `json:"type"`
	} `json:"news"`
}
