// Package linkedin implements core.NetworkProvider over a RapidAPI-hosted
// LinkedIn data API. Endpoint shapes vary by plan, so responses are parsed
// defensively and missing fields are tolerated.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inquiro/inquiro/core"
)

const defaultHost = "linkedin-data-api.p.rapidapi.com"

// Options configure the LinkedIn client.
type Options struct {
	Host       string
	HTTPClient *http.Client
}

// Client is a minimal professional-network client implementing
// core.NetworkProvider.
type Client struct {
	apiKey string
	opts   Options
}

// New creates a LinkedIn client. An empty API key leaves the client
// unconfigured; the pipeline will skip it.
func New(apiKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Host:       defaultHost,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{apiKey: apiKey, opts: opts}
}

// Configured implements core.NetworkProvider.
func (c *Client) Configured() bool { return c.apiKey != "" && c.opts.Host != "" }

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := fmt.Sprintf("https://%s%s?%s", c.opts.Host, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("linkedin: build request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.opts.Host)

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("linkedin api error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("linkedin api error: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type companyResponse struct {
	CompanyID json.Number `json:"companyId"`
	ID        json.Number `json:"id"`
	Data      struct {
		CompanyID json.Number `json:"companyId"`
		ID        json.Number `json:"id"`
	} `json:"data"`
	Company struct {
		ID        json.Number `json:"id"`
		CompanyID json.Number `json:"companyId"`
	} `json:"company"`
}

// CompanyByDomain implements core.NetworkProvider: resolve a company domain
// to the provider's company id. The id appears under several shapes
// depending on plan, so every known location is tried in order.
func (c *Client) CompanyByDomain(ctx context.Context, domain string) (string, error) {
	if !c.Configured() || domain == "" {
		return "", nil
	}

	var parsed companyResponse
	if err := c.get(ctx, "/get-company-by-domain", url.Values{"domain": {domain}}, &parsed); err != nil {
		return "", err
	}

	for _, candidate := range []json.Number{
		parsed.CompanyID, parsed.ID,
		parsed.Data.CompanyID, parsed.Data.ID,
		parsed.Company.ID, parsed.Company.CompanyID,
	} {
		if candidate.String() != "" {
			return candidate.String(), nil
		}
	}
	return "", nil
}

type employeesResponse struct {
	Employees []employeeItem `json:"employees"`
	Data      []employeeItem `json:"data"`
}

type employeeItem struct {
	FullName   string `json:"fullName"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Position   string `json:"position"`
	ProfileURL string `json:"profileUrl"`
	URL        string `json:"url"`
}

// EmployeesByCompany implements core.NetworkProvider: one page of employee
// profiles for a company id.
func (c *Client) EmployeesByCompany(ctx context.Context, companyID string, page int) ([]core.Employee, error) {
	if !c.Configured() || companyID == "" {
		return nil, nil
	}

	params := url.Values{"companyId": {companyID}, "page": {strconv.Itoa(page)}}
	var parsed employeesResponse
	if err := c.get(ctx, "/get-company-employees", params, &parsed); err != nil {
		return nil, err
	}

	items := parsed.Employees
	if len(items) == 0 {
		items = parsed.Data
	}

	var employees []core.Employee
	for _, item := range items {
		name := item.FullName
		if name == "" {
			name = item.Name
		}
		title := item.Title
		if title == "" {
			title = item.Position
		}
		if name == "" || title == "" {
			continue
		}
		profile := item.ProfileURL
		if profile == "" {
			profile = item.URL
		}
		employees = append(employees, core.Employee{Name: name, Title: title, ProfileURL: profile})
	}
	return employees, nil
}
