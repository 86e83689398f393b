package api

import (
	"net/http"

	"github.com/absmach/supermq"
	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/usagelog"
)

var (
	_ supermq.Response = (*startQueryResponse)(nil)
	_ supermq.Response = (*listClientsResponse)(nil)
	_ supermq.Response = (*listPoliciesResponse)(nil)
	_ supermq.Response = (*listUsageResponse)(nil)
)

type startQueryResponse struct {
	Status string `json:"status"`
}

func (r startQueryResponse) Code() int {
	return http.StatusAccepted
}

func (r startQueryResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r startQueryResponse) Empty() bool {
	return false
}

type listClientsResponse struct {
	Clients []connection.Client `json:"clients"`
}

func (l listClientsResponse) Code() int {
	return http.StatusOK
}

func (l listClientsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listClientsResponse) Empty() bool {
	return false
}

type listPoliciesResponse struct {
	policy.Page
}

func (l listPoliciesResponse) Code() int {
	return http.StatusOK
}

func (l listPoliciesResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listPoliciesResponse) Empty() bool {
	return false
}

type listUsageResponse struct {
	usagelog.Page
}

func (l listUsageResponse) Code() int {
	return http.StatusOK
}

func (l listUsageResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listUsageResponse) Empty() bool {
	return false
}
