package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for payroll resources.
	uriScheme = "payroll://"

	employeesURI = uriScheme + "employees"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         employeesURI,
		Name:        "employees",
		Description: "All employees with derived tax and net salary",
		MIMEType:    "application/json",
	}, s.handleEmployeesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: employeesURI + "/{id}",
		Name:        "employee",
		Description: "A single employee record",
		MIMEType:    "application/json",
	}, s.handleEmployeeResource)
}

func (s *Server) handleEmployeesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	views, err := s.ports.Payroll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	out := make([]EmployeeOutput, len(views))
	for i := range views {
		out[i] = toOutput(views[i])
	}
	return jsonResult(req.Params.URI, out)
}

func (s *Server) handleEmployeeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractEmployeeID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	e, err := s.ports.Payroll.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	if e == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, toOutput(domain.ComputePayroll(*e)))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEmployeeID extracts the id from a URI like payroll://employees/{id}.
func extractEmployeeID(uri string) string {
	const prefix = employeesURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
