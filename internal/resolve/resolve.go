// Package resolve runs the identity resolution pass: per repository it
// decides between no action, auto-applying a matched preset, and the
// interactive fallback, with strict idempotence (an already-correct
// repository is never rewritten and never prompts).
package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/steveyegge/gitwarden/internal/gitcfg"
	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/match"
	"github.com/steveyegge/gitwarden/internal/selection"
	"github.com/steveyegge/gitwarden/internal/settings"
	"github.com/steveyegge/gitwarden/internal/status"
)

// Outcome is the terminal state of one repository for one pass.
type Outcome int

const (
	// OutcomeOK means the repository already satisfied policy or an
	// identical identity made a write unnecessary. Zero writes, zero
	// prompts.
	OutcomeOK Outcome = iota

	// OutcomeApplied means a matched preset was written automatically.
	OutcomeApplied

	// OutcomeConfigured means the user completed the selection workflow.
	OutcomeConfigured

	// OutcomeSkipped means the user skipped the repository for this
	// session. Not persisted.
	OutcomeSkipped

	// OutcomeIgnored means the repository is on the permanent ignore
	// list (pre-existing or chosen during this pass).
	OutcomeIgnored

	// OutcomeUnresolved means the repository still violates policy: the
	// prompt was cancelled, deferred, or unavailable.
	OutcomeUnresolved

	// OutcomeDisabled means checking is globally disabled.
	OutcomeDisabled
)

// String names the outcome for logs and status output.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeApplied:
		return "applied"
	case OutcomeConfigured:
		return "configured"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PromptAction is the user's choice from the violation prompt.
type PromptAction int

const (
	// ActionConfigure opens the selection workflow for this repository.
	ActionConfigure PromptAction = iota

	// ActionDefer moves on to the other repositories, leaving this one
	// unresolved for now.
	ActionDefer

	// ActionSkipSession skips this repository until the process exits.
	ActionSkipSession

	// ActionIgnore permanently ignores this repository.
	ActionIgnore

	// ActionDismiss is a cancelled prompt. Under blockUntilConfigured it
	// also aborts the retry loop.
	ActionDismiss
)

// Violation describes a policy failure for the prompt.
type Violation struct {
	Status status.Status

	// Detail is the human-readable reason (which fields are missing, or
	// which domain mismatched).
	Detail string
}

// Prompter is the interactive surface. Implementations may suspend
// indefinitely waiting on the user; tests script responses.
type Prompter interface {
	// ResolveViolation presents a violation and the four remediation
	// choices.
	ResolveViolation(ctx context.Context, v Violation) (PromptAction, error)

	// SelectIdentity runs the selection workflow for repoPath. The
	// workflow's Current() identity is the pre-filled default.
	SelectIdentity(ctx context.Context, repoPath string, workflow *selection.Workflow) (selection.Result, error)
}

// RepoResult pairs a repository with its pass outcome.
type RepoResult struct {
	RepoPath string
	Outcome  Outcome
	Status   status.Status

	// Applied is the identity written during this pass, if any.
	Applied *identity.Identity
}

// PassResult collects per-repository results in processing order.
type PassResult struct {
	Results []RepoResult
}

// Unresolved returns the repositories left in violation.
func (p *PassResult) Unresolved() []string {
	var out []string
	for _, r := range p.Results {
		if r.Outcome == OutcomeUnresolved {
			out = append(out, r.RepoPath)
		}
	}
	return out
}

// Counts tallies outcomes for summary lines.
func (p *PassResult) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, r := range p.Results {
		counts[r.Outcome]++
	}
	return counts
}

// Orchestrator owns the per-repository decision flow and the
// session-scoped skip set. One orchestrator serves the whole process;
// the skip set dies with it.
type Orchestrator struct {
	git      gitcfg.Client
	settings settings.Service
	store    *identity.Store
	resolver *status.Resolver
	matcher  *match.Engine
	prompter Prompter
	log      *logrus.Logger

	// skipped is the session-skip set: repositories the user declined
	// for this process lifetime. Never persisted.
	skipped map[string]bool
}

// New wires an orchestrator. prompter may be nil for non-interactive
// runs; violations are then left unresolved rather than prompted.
func New(git gitcfg.Client, svc settings.Service, prompter Prompter, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	store := identity.NewStore(svc)
	return &Orchestrator{
		git:      git,
		settings: svc,
		store:    store,
		resolver: status.NewResolver(git, svc),
		matcher:  match.NewEngine(git, store),
		prompter: prompter,
		log:      log,
		skipped:  make(map[string]bool),
	}
}

// Store exposes the identity store sharing this orchestrator's backend.
func (o *Orchestrator) Store() *identity.Store { return o.store }

// Resolver exposes the status resolver for read-only status displays.
func (o *Orchestrator) Resolver() *status.Resolver { return o.resolver }

// Run processes the repositories sequentially. Under
// blockUntilConfigured the still-unresolved repositories are re-queued
// and swept again, bounded by user interaction: a dismissed prompt or a
// cancelled context aborts the retry loop.
func (o *Orchestrator) Run(ctx context.Context, repos []string) (*PassResult, error) {
	pass := &PassResult{}
	passLog := o.log.WithField("pass", uuid.NewString()[:8])

	queue := repos
	for round := 0; ; round++ {
		policy := o.settings.Policy()
		if !policy.Enabled {
			passLog.Debug("checking disabled, pass is a no-op")
			for _, repo := range queue {
				pass.Results = upsertResult(pass.Results, repoResult{
					RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeDisabled},
				})
			}
			return pass, nil
		}

		aborted := false
		var unresolved []string
		for _, repo := range queue {
			if err := ctx.Err(); err != nil {
				return pass, err
			}

			result, err := o.checkRepo(ctx, repo, policy, passLog)
			if err != nil {
				// A write failure aborts this repository only; the pass
				// continues with the rest. Errored repositories are never
				// re-queued: retrying without user interaction would loop
				// on the same failure.
				passLog.WithField("repo", repo).WithError(err).Warn("repository pass failed")
				pass.Results = upsertResult(pass.Results, repoResult{
					RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeUnresolved},
				})
				continue
			}

			if round == 0 || result.Outcome != OutcomeUnresolved {
				pass.Results = upsertResult(pass.Results, result)
			}
			switch result.Outcome {
			case OutcomeUnresolved:
				unresolved = append(unresolved, repo)
				if result.dismissed {
					aborted = true
				}
			}
		}

		if !policy.BlockUntilConfigured || len(unresolved) == 0 || aborted || o.prompter == nil {
			return pass, nil
		}
		passLog.WithField("remaining", len(unresolved)).Debug("blocking until configured, re-queuing")
		queue = unresolved
	}
}

// repoResult is checkRepo's outcome plus the abort signal for the
// blocking retry loop.
type repoResult struct {
	RepoResult
	dismissed bool
}

// checkRepo runs the per-repository state machine once.
func (o *Orchestrator) checkRepo(ctx context.Context, repo string, policy settings.Policy, log *logrus.Entry) (repoResult, error) {
	log = log.WithField("repo", repo)

	if o.skipped[repo] {
		log.Debug("session-skipped")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeSkipped}}, nil
	}

	st := o.resolver.Resolve(repo)
	if st.Ignored {
		log.Debug("permanently ignored")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeIgnored, Status: st}}, nil
	}

	if st.OK() {
		// Idempotence: a correct repository is terminal with no writes
		// and no prompts, however many times the pass runs.
		log.Debug("identity ok")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeOK, Status: st}}, nil
	}

	if policy.AutoApplyBestMatch {
		if preset, ok := o.matcher.FindBest(repo); ok {
			if preset.Identity.Equal(st.Identity) {
				// The best match is already in place. No rewrite and no
				// notification, even when the domain check failed; this
				// is what stops write/notify loops.
				log.WithField("preset", preset.DisplayName()).Debug("best match already applied")
				return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeOK, Status: st}}, nil
			}

			if err := o.apply(repo, preset.Identity, preset.Options); err != nil {
				return repoResult{}, err
			}
			log.WithField("preset", preset.DisplayName()).Info("auto-applied")
			applied := preset.Identity
			return repoResult{RepoResult: RepoResult{
				RepoPath: repo,
				Outcome:  OutcomeApplied,
				Status:   st,
				Applied:  &applied,
			}}, nil
		}
	}

	if o.prompter == nil {
		log.Debug("violation, no prompter available")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeUnresolved, Status: st}}, nil
	}

	action, err := o.prompter.ResolveViolation(ctx, Violation{Status: st, Detail: Describe(st)})
	if err != nil {
		return repoResult{}, fmt.Errorf("violation prompt: %w", err)
	}

	switch action {
	case ActionConfigure:
		outcome, applied, err := o.configure(ctx, repo, st)
		if err != nil {
			return repoResult{}, err
		}
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: outcome, Status: st, Applied: applied}}, nil

	case ActionSkipSession:
		o.skipped[repo] = true
		log.Info("skipped for this session")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeSkipped, Status: st}}, nil

	case ActionIgnore:
		if err := o.settings.IgnoreRepository(repo); err != nil {
			return repoResult{}, fmt.Errorf("ignoring repository: %w", err)
		}
		log.Info("permanently ignored")
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeIgnored, Status: st}}, nil

	case ActionDefer:
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeUnresolved, Status: st}}, nil

	default: // ActionDismiss
		return repoResult{RepoResult: RepoResult{RepoPath: repo, Outcome: OutcomeUnresolved, Status: st}, dismissed: true}, nil
	}
}

// Configure runs the selection workflow for one repository regardless of
// its current status (the explicit trigger path). A cancelled selection
// leaves the repository in its prior state.
func (o *Orchestrator) Configure(ctx context.Context, repo string) (Outcome, error) {
	if !o.settings.Policy().Enabled {
		return OutcomeDisabled, nil
	}
	if o.prompter == nil {
		return OutcomeUnresolved, fmt.Errorf("no interactive prompter available")
	}

	st := o.resolver.Resolve(repo)
	outcome, _, err := o.configure(ctx, repo, st)
	return outcome, err
}

// configure drives the selection workflow and applies its result.
func (o *Orchestrator) configure(ctx context.Context, repo string, st status.Status) (Outcome, *identity.Identity, error) {
	workflow := selection.New(o.store, st.Identity)
	res, err := o.prompter.SelectIdentity(ctx, repo, workflow)
	if err != nil {
		return OutcomeUnresolved, nil, fmt.Errorf("selection workflow: %w", err)
	}

	if res.Canceled {
		// Prior state: already-OK stays OK, otherwise still unresolved.
		if st.OK() {
			return OutcomeOK, nil, nil
		}
		return OutcomeUnresolved, nil, nil
	}

	// Skip the write when nothing would change: same comparison key and
	// no options to apply. Still success to the caller.
	if res.Identity.Equal(st.Identity) && len(res.Options) == 0 {
		return OutcomeConfigured, nil, nil
	}

	if err := o.apply(repo, res.Identity, res.Options); err != nil {
		return OutcomeUnresolved, nil, err
	}
	applied := res.Identity
	return OutcomeConfigured, &applied, nil
}

// apply writes the identity and options to the repository's local
// configuration and records the identity in recents. One external call
// per key; a failure propagates without rollback.
func (o *Orchestrator) apply(repo string, id identity.Identity, options map[string]string) error {
	if err := o.git.ConfigSet(repo, "user.name", id.Name); err != nil {
		return err
	}
	if err := o.git.ConfigSet(repo, "user.email", id.Email); err != nil {
		return err
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.git.ConfigSet(repo, k, options[k]); err != nil {
			return err
		}
	}

	if err := o.store.Remember(id); err != nil {
		return fmt.Errorf("recording recent identity: %w", err)
	}
	return nil
}

// Describe renders a violation reason for prompts and status output.
func Describe(st status.Status) string {
	if len(st.Missing) > 0 {
		return fmt.Sprintf("missing %s", strings.Join(st.Missing, " and "))
	}
	if !st.ValidDomain {
		if domain, ok := identity.EmailDomain(st.Identity.Email); ok {
			return fmt.Sprintf("email domain %q is not allowed", domain)
		}
		return fmt.Sprintf("email %q has no valid domain", st.Identity.Email)
	}
	return "identity ok"
}

// upsertResult replaces the previous round's entry for the same
// repository, keeping results in first-seen order.
func upsertResult(results []RepoResult, r repoResult) []RepoResult {
	for i := range results {
		if results[i].RepoPath == r.RepoPath {
			results[i] = r.RepoResult
			return results
		}
	}
	return append(results, r.RepoResult)
}
