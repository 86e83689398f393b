package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type SDK interface {
	// StartQuery submits a query and waits for its outcome.
	//
	// example:
	//  req := sdk.QueryRequest{
	//    Collection: "examples",
	//    Criteria:   criteria,
	//    Properties: sdk.Properties{RunID: 1, Federated: &sdk.Federated{PopulationName: "pop"}},
	//  }
	//  res, _ := sdk.StartQuery(req)
	//  fmt.Println(res)
	StartQuery(req QueryRequest) (QueryResponse, error)

	// ListClients lists the clients the router can delegate to.
	//
	// example:
	//  clients, _ := sdk.ListClients()
	//  fmt.Println(clients)
	ListClients() ([]Client, error)

	// ListPolicies lists the installed policies.
	//
	// example:
	//  policyPage, _ := sdk.ListPolicies(0, 10)
	//  fmt.Println(policyPage)
	ListPolicies(offset uint64, limit uint64) (PolicyPage, error)

	// ListUsage lists the recorded usage-log entries.
	//
	// example:
	//  usagePage, _ := sdk.ListUsage(0, 10)
	//  fmt.Println(usagePage)
	ListUsage(offset uint64, limit uint64) (UsagePage, error)
}

type routerSDK struct {
	routerURL string
	client    *http.Client
}

type Config struct {
	RouterURL       string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &routerSDK{
		routerURL: cfg.RouterURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *routerSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d: %s", resp.StatusCode, body)
	}

	return body, nil
}
