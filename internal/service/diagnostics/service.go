package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
)

type PayerStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Payer, error)
}

type CheckStore interface {
	ListUncoveredSupervisors(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UncoveredSupervisor, error)
	ListUnsupervisedResidents(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.UnsupervisedResident, error)
	ListBlockedProviders(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.BlockedProvider, error)
	ListPendingContracts(ctx context.Context, payerID uuid.UUID, asOf time.Time) ([]*model.PendingContract, error)
}

type BookabilityResolver interface {
	Resolve(ctx context.Context, payerID uuid.UUID, date time.Time) ([]*model.BookableProvider, error)
}

// Service runs the payer sanity-check battery. Every check is advisory
// and read-only; a check whose query fails is logged and reported as
// empty rather than failing the whole report.
type Service struct {
	payers      PayerStore
	checks      CheckStore
	bookability BookabilityResolver
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(payers PayerStore, checks CheckStore, bookability BookabilityResolver, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		payers:      payers,
		checks:      checks,
		bookability: bookability,
		metrics:     m,
		logger:      l,
	}
}

// Run produces the full diagnostic report for one payer as of a date.
func (s *Service) Run(ctx context.Context, payerID uuid.UUID, asOf time.Time) (*model.DiagnosticReport, error) {
	payer, err := s.payers.Get(ctx, payerID)
	if err != nil {
		return nil, errors.NotFound("payer", err)
	}

	report := &model.DiagnosticReport{
		PayerID:   payer.ID,
		PayerName: payer.Name,
		AsOf:      asOf,
	}

	bookable, err := s.bookability.Resolve(ctx, payerID, asOf)
	if err != nil {
		s.logCheckFailure("bookable_providers", payerID, err)
	}
	for _, b := range bookable {
		report.BookableProviders = append(report.BookableProviders, *b)
	}
	if len(bookable) == 0 {
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingWarning,
			Category: "bookable_providers",
			Message:  "no providers are bookable for this payer on the as-of date",
		})
	} else {
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingInfo,
			Category: "bookable_providers",
			Message:  fmt.Sprintf("%d providers bookable", len(bookable)),
		})
	}

	uncovered, err := s.checks.ListUncoveredSupervisors(ctx, payerID, asOf)
	if err != nil {
		s.logCheckFailure("uncovered_supervisors", payerID, err)
		uncovered = nil
	}
	for _, u := range uncovered {
		report.UncoveredSupervisors = append(report.UncoveredSupervisors, *u)
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingError,
			Category: "uncovered_supervisors",
			Message: fmt.Sprintf("%s %s supervises %d residents but has no effective contract",
				u.FirstName, u.LastName, u.SuperviseeCount),
			Details: u,
		})
	}

	residents, err := s.checks.ListUnsupervisedResidents(ctx, payerID, asOf)
	if err != nil {
		s.logCheckFailure("unsupervised_residents", payerID, err)
		residents = nil
	}
	for _, r := range residents {
		report.UnsupervisedResidents = append(report.UnsupervisedResidents, *r)
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingWarning,
			Category: "unsupervised_residents",
			Message: fmt.Sprintf("%s %s is active and bookable but has no supervision link for this payer",
				r.FirstName, r.LastName),
			Details: r,
		})
	}

	blocked, err := s.checks.ListBlockedProviders(ctx, payerID, asOf)
	if err != nil {
		s.logCheckFailure("blocked_providers", payerID, err)
		blocked = nil
	}
	for _, b := range blocked {
		report.BlockedProviders = append(report.BlockedProviders, *b)
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingInfo,
			Category: "blocked_providers",
			Message: fmt.Sprintf("%s %s holds a valid contract but is blocked by roster flags (%s)",
				b.FirstName, b.LastName, blockedFlags(b)),
			Details: b,
		})
	}

	pending, err := s.checks.ListPendingContracts(ctx, payerID, asOf)
	if err != nil {
		s.logCheckFailure("pending_contracts", payerID, err)
		pending = nil
	}
	for _, p := range pending {
		report.PendingContracts = append(report.PendingContracts, *p)
		report.Findings = append(report.Findings, model.Finding{
			Level:    model.FindingInfo,
			Category: "pending_contracts",
			Message:  pendingMessage(p, asOf),
			Details:  p,
		})
	}

	report.Findings = append(report.Findings, payerConfigFindings(payer)...)

	for _, f := range report.Findings {
		switch f.Level {
		case model.FindingError:
			report.HasErrors = true
		case model.FindingWarning:
			report.HasWarnings = true
		}
		if s.metrics != nil {
			s.metrics.DiagnosticFindings.WithLabelValues(string(f.Level)).Inc()
		}
	}
	return report, nil
}

// payerConfigFindings flags inconsistencies in the payer row itself.
func payerConfigFindings(payer *model.Payer) []model.Finding {
	var findings []model.Finding
	if payer.RequiresAttending && !payer.AllowsSupervised {
		findings = append(findings, model.Finding{
			Level:    model.FindingWarning,
			Category: "payer_config",
			Message:  "payer requires attending oversight but disallows supervised billing, making residents unbookable",
		})
	}
	if payer.EffectiveDate == nil {
		findings = append(findings, model.Finding{
			Level:    model.FindingWarning,
			Category: "payer_config",
			Message:  "payer has no effective date set",
		})
	}
	if payer.StatusCode != model.PayerStatusApproved {
		findings = append(findings, model.Finding{
			Level:    model.FindingInfo,
			Category: "payer_config",
			Message:  fmt.Sprintf("payer status is %q, not approved", payer.StatusCode),
		})
	}
	return findings
}

func blockedFlags(b *model.BlockedProvider) string {
	out := ""
	add := func(flag string) {
		if out != "" {
			out += ", "
		}
		out += flag
	}
	if !b.IsActive {
		add("inactive")
	}
	if !b.IsBookable {
		add("not bookable")
	}
	if !b.AcceptsNewPatients {
		add("not accepting new patients")
	}
	return out
}

func pendingMessage(p *model.PendingContract, asOf time.Time) string {
	if p.EffectiveDate.After(asOf) {
		return fmt.Sprintf("%s %s has a contract effective %s",
			p.FirstName, p.LastName, p.EffectiveDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s %s has a contract bookable from %s",
		p.FirstName, p.LastName, p.BookableFromDate.Format("2006-01-02"))
}

func (s *Service) logCheckFailure(check string, payerID uuid.UUID, err error) {
	if s.logger != nil {
		s.logger.Error(err, "diagnostic check failed", "check", check, "payer_id", payerID.String())
	}
}
