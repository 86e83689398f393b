package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	queriesEndpoint  = "/queries"
	clientsEndpoint  = "/clients"
	policiesEndpoint = "/policies"
	usageEndpoint    = "/usage"
)

type SecureAggregation struct {
	MinimumClients int `json:"minimum_clients"`
}

type EligibilityEval struct {
	PopulationName string `json:"population_name"`
}

type Federated struct {
	PopulationName    string             `json:"population_name"`
	SecureAggregation *SecureAggregation `json:"secure_aggregation,omitempty"`
}

type Properties struct {
	RunID           int64            `json:"run_id"`
	EligibilityEval *EligibilityEval `json:"eligibility_eval,omitempty"`
	Federated       *Federated       `json:"federated,omitempty"`
}

type QueryRequest struct {
	Collection      string     `json:"collection"`
	Criteria        []byte     `json:"criteria"`
	ResumptionToken []byte     `json:"resumption_token,omitempty"`
	Properties      Properties `json:"properties"`
}

type QueryResponse struct {
	Status string `json:"status"`
}

func (sdk *routerSDK) StartQuery(req QueryRequest) (QueryResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return QueryResponse{}, err
	}

	url := sdk.routerURL + queriesEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusAccepted)
	if err != nil {
		return QueryResponse{}, err
	}

	var qr QueryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return QueryResponse{}, err
	}

	return qr, nil
}

type Client struct {
	Name     string `json:"name"`
	Endpoint struct {
		ChannelID string `json:"channel_id"`
	} `json:"endpoint"`
}

type clientsResponse struct {
	Clients []Client `json:"clients"`
}

func (sdk *routerSDK) ListClients() ([]Client, error) {
	url := sdk.routerURL + clientsEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var cr clientsResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, err
	}

	return cr.Clients, nil
}

type Policy struct {
	Name    string                       `json:"name"`
	Configs map[string]map[string]string `json:"configs"`
}

type PolicyPage struct {
	Offset   uint64   `json:"offset"`
	Limit    uint64   `json:"limit"`
	Total    uint64   `json:"total"`
	Policies []Policy `json:"policies"`
}

func (sdk *routerSDK) ListPolicies(offset, limit uint64) (PolicyPage, error) {
	url := sdk.routerURL + policiesEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return PolicyPage{}, err
	}

	var pp PolicyPage
	if err := json.Unmarshal(body, &pp); err != nil {
		return PolicyPage{}, err
	}

	return pp, nil
}

type UsageEntry struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	FeatureName    string    `json:"feature_name"`
	ClientName     string    `json:"client_name"`
	PopulationName string    `json:"population_name"`
	PolicyName     string    `json:"policy_name"`
	RunID          int64     `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type UsagePage struct {
	Offset  uint64       `json:"offset"`
	Limit   uint64       `json:"limit"`
	Total   uint64       `json:"total"`
	Entries []UsageEntry `json:"entries"`
}

func (sdk *routerSDK) ListUsage(offset, limit uint64) (UsagePage, error) {
	url := sdk.routerURL + usageEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return UsagePage{}, err
	}

	var up UsagePage
	if err := json.Unmarshal(body, &up); err != nil {
		return UsagePage{}, err
	}

	return up, nil
}

func pageQuery(offset, limit uint64) string {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	if len(queries) == 0 {
		return ""
	}

	return "?" + strings.Join(queries, "&")
}
