package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	registryUseCase "github.com/allisson/keyosk/internal/registry/usecase"
)

// RunCreateDomain creates a domain from a YAML definition holding its settings, access
// lists, permissions and optional admin settings. Lifespans use Go duration syntax
// (e.g. "15m").
//
// Requirements: Database must be migrated and accessible.
func RunCreateDomain(
	ctx context.Context,
	domainUC registryUseCase.DomainUseCase,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	format string,
) error {
	var input registryDomain.CreateDomainInput

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&input); err != nil {
		return fmt.Errorf("failed to parse domain definition: %w", err)
	}

	logger.Info("creating new domain", slog.String("name", input.Name))

	detail, err := domainUC.Create(ctx, &input)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}

	if format == "json" {
		permissions := make([]map[string]any, 0, len(detail.Permissions))
		for _, p := range detail.Permissions {
			permissions = append(permissions, map[string]any{"name": p.Name, "bitindex": p.BitIndex})
		}
		accessLists := make([]string, 0, len(detail.AccessLists))
		for _, l := range detail.AccessLists {
			accessLists = append(accessLists, l.Name)
		}
		writeJSON(writer, map[string]any{
			"domain_id":    detail.Domain.ID.String(),
			"name":         detail.Domain.Name,
			"audience":     detail.Domain.Audience,
			"access_lists": accessLists,
			"permissions":  permissions,
		})
	} else {
		_, _ = fmt.Fprintln(writer, "\nDomain created successfully!")
		_, _ = fmt.Fprintf(writer, "Domain ID: %s\n", detail.Domain.ID.String())
		_, _ = fmt.Fprintf(writer, "Name: %s (audience %s)\n", detail.Domain.Name, detail.Domain.Audience)
		_, _ = fmt.Fprintf(writer, "Access lists: %d\n", len(detail.AccessLists))
		for _, p := range detail.Permissions {
			_, _ = fmt.Fprintf(writer, "  [%d] %s\n", p.BitIndex, p.Name)
		}
	}

	logger.Info("domain created successfully",
		slog.String("domain_id", detail.Domain.ID.String()),
		slog.String("name", detail.Domain.Name),
	)

	return nil
}
