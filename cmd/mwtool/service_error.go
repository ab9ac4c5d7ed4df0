// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"

	"github.com/mwtool/mwtool/internal/fsutil"
	"github.com/mwtool/mwtool/internal/issue"
	"github.com/mwtool/mwtool/pkg/classfile"
	"github.com/mwtool/mwtool/pkg/composer"
	"github.com/mwtool/mwtool/pkg/configinjector"
	"github.com/mwtool/mwtool/pkg/module"
	"github.com/mwtool/mwtool/pkg/namespace"
	"github.com/mwtool/mwtool/pkg/scaffold"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// issueCatalog maps domain sentinel errors to the catalog entry explaining
// how to fix them. The first match wins.
var issueCatalog = []struct {
	err error
	id  issue.Id
}{
	{module.ErrDumpAutoloadFailed, issue.DumpAutoloadFailedId},
	{composer.ErrManifestMissing, issue.ManifestNotFoundId},
	{composer.ErrManifestMalformed, issue.ManifestMalformedId},
	{composer.ErrAutoloadMissing, issue.AutoloadMissingId},
	{namespace.ErrAutoloaderNotFound, issue.AutoloaderNotFoundId},
	{classfile.ErrClassAlreadyExists, issue.ClassExistsId},
	{scaffold.ErrClassNotFound, issue.ClassNotFoundId},
	{scaffold.ErrModuleExists, issue.ModuleExistsId},
	{scaffold.ErrUnresolvableParameter, issue.UnresolvableParameterId},
	{module.ErrModuleNotFound, issue.ModuleNotFoundId},
	{configinjector.ErrAggregatorNotFound, issue.AggregatorNotFoundId},
	{configinjector.ErrConfigFileMissing, issue.AggregatorNotFoundId},
	{configinjector.ErrConfigFileNotWritable, issue.ConfigFileNotWritableId},
	{fsutil.ErrDirectoryNotWritable, issue.PermissionDeniedId},
	{fs.ErrPermission, issue.PermissionDeniedId},
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a domain failure to its issue catalog ID and returns a
// styled message for CLI rendering. The ID is zero for unknown failures.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	for _, entry := range issueCatalog {
		if errors.Is(err, entry.err) {
			issueID = entry.id
			break
		}
	}
	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string, logger *log.Logger) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			logger.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
