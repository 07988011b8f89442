package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/buster/internal/auth"
	"git.home.luguber.info/inful/buster/internal/config"
	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/retry"
)

const (
	remoteName = "origin"

	readme = "# Blog\nPowered by [Ghost](http://ghost.org) and [Buster](https://github.com/manthansharma/buster/).\n"

	commitTimeLayout = "2006-01-02 15:04:05"
)

// User and organization pages on GitHub are served from master; project
// pages from gh-pages.
var githubPagesRe = regexp.MustCompile(`[\w-]+\.github\.(io|com)`)

// BranchFor returns the branch a site pushed to remoteURL is served from.
func BranchFor(remoteURL string) string {
	if githubPagesRe.MatchString(remoteURL) {
		return "master"
	}
	return "gh-pages"
}

// Publisher operates on the site repository in dir.
type Publisher struct {
	dir      string
	cfg      config.GitConfig
	prompter Prompter
	now      func() time.Time
	policy   retry.Policy
}

// New creates a Publisher for dir.
func New(dir string, cfg config.GitConfig) *Publisher {
	return &Publisher{
		dir:    dir,
		cfg:    cfg,
		now:    time.Now,
		policy: retry.DefaultPolicy(),
	}
}

// WithPrompter sets the prompter used for interactive questions.
func (p *Publisher) WithPrompter(pr Prompter) *Publisher {
	p.prompter = pr
	return p
}

// WithClock replaces the commit clock (for testing).
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

// WithRetryPolicy sets the backoff used for transient push failures.
func (p *Publisher) WithRetryPolicy(policy retry.Policy) *Publisher {
	p.policy = policy
	return p
}

// SetupOptions configures Setup.
type SetupOptions struct {
	RemoteURL string
	// Force skips the confirmation before an existing directory is removed.
	Force bool
}

// SetupResult describes the initialized repository.
type SetupResult struct {
	RemoteURL string
	Branch    string
}

// Setup replaces dir with a fresh repository whose origin is the remote
// URL, on the branch the hosting service serves pages from.
func (p *Publisher) Setup(ctx context.Context, opts SetupOptions) (*SetupResult, error) {
	remoteURL := opts.RemoteURL
	if remoteURL == "" {
		remoteURL = p.cfg.Remote
	}
	if remoteURL == "" {
		if p.prompter == nil {
			return nil, errors.ValidationError("repository URL is required").UserAction().Build()
		}
		answer, err := p.prompter.Ask("Enter the Git repository URL: ")
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to read repository URL").Build()
		}
		if answer == "" {
			return nil, errors.ValidationError("repository URL is required").UserAction().Build()
		}
		remoteURL = answer
	}

	if !opts.Force && !isEmptyDir(p.dir) {
		if p.prompter == nil {
			return nil, errors.ValidationError("directory is not empty; use --force to replace it").
				WithContext("path", p.dir).
				Build()
		}
		ok, err := p.prompter.Confirm(fmt.Sprintf("This will destroy everything inside %s. Are you sure?", p.dir))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to read confirmation").Build()
		}
		if !ok {
			return nil, errors.ValidationError("setup aborted").WithContext("path", p.dir).Build()
		}
	}

	if err := os.RemoveAll(p.dir); err != nil {
		return nil, errors.FileSystemError("failed to remove directory").WithCause(err).WithContext("path", p.dir).Build()
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, errors.FileSystemError("failed to create directory").WithCause(err).WithContext("path", p.dir).Build()
	}

	branch := BranchFor(remoteURL)
	repo, err := git.PlainInitWithOptions(p.dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	if err != nil {
		return nil, classifyGitError(err, "init", "")
	}
	if _, err := repo.CreateRemote(&gitcfg.RemoteConfig{Name: remoteName, URLs: []string{remoteURL}}); err != nil {
		return nil, classifyGitError(err, "remote", remoteURL)
	}
	if err := os.WriteFile(filepath.Join(p.dir, "README.md"), []byte(readme), 0o644); err != nil {
		return nil, errors.FileSystemError("failed to write README").WithCause(err).Build()
	}

	observability.InfoContext(ctx, "Repository initialized",
		logfields.Path(p.dir), logfields.URL(remoteURL), logfields.Branch(branch))
	return &SetupResult{RemoteURL: remoteURL, Branch: branch}, nil
}

// DeployResult describes a deploy.
type DeployResult struct {
	Branch string
	// Commit is empty when the tree had no changes.
	Commit   string
	UpToDate bool
}

// Deploy commits every change in the tree, deletions included, and pushes
// the current branch to origin.
func (p *Publisher) Deploy(ctx context.Context) (*DeployResult, error) {
	repo, err := p.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, classifyGitError(err, "worktree", "")
	}

	res := &DeployResult{}
	changed, err := stageAll(wt)
	if err != nil {
		return nil, classifyGitError(err, "add", "")
	}
	if changed {
		when := p.now().UTC()
		hash, err := wt.Commit("Blog update at "+when.Format(commitTimeLayout), &git.CommitOptions{
			Author: &object.Signature{Name: p.cfg.AuthorName, Email: p.cfg.AuthorEmail, When: when},
		})
		if err != nil {
			return nil, classifyGitError(err, "commit", "")
		}
		res.Commit = hash.String()
		observability.InfoContext(ctx, "Committed site changes", logfields.Commit(res.Commit))
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.GitError("nothing to deploy; the repository has no commits").
			WithCause(err).
			WithContext("path", p.dir).
			Build()
	}
	res.Branch = head.Name().Short()

	authMethod, err := auth.CreateAuth(p.cfg.Auth)
	if err != nil {
		return nil, errors.ConfigError("invalid git credentials").WithCause(err).Build()
	}
	remoteURL := p.remoteURL(repo)
	refSpec := gitcfg.RefSpec(fmt.Sprintf("%s:%s", head.Name(), head.Name()))

	err = p.policy.Do(ctx, isTransient, func() error {
		pushErr := repo.PushContext(ctx, &git.PushOptions{
			RemoteName: remoteName,
			RefSpecs:   []gitcfg.RefSpec{refSpec},
			Auth:       authMethod,
		})
		if pushErr == nil || stderrors.Is(pushErr, git.NoErrAlreadyUpToDate) {
			res.UpToDate = pushErr != nil
			return nil
		}
		observability.WarnContext(ctx, "Push failed", logfields.URL(remoteURL), logfields.Error(pushErr))
		return classifyGitError(pushErr, "push", remoteURL)
	})
	if err != nil {
		return nil, err
	}

	observability.InfoContext(ctx, "Site deployed",
		logfields.Branch(res.Branch), logfields.URL(remoteURL), slog.Bool("up_to_date", res.UpToDate))
	return res, nil
}

// AddDomain writes the CNAME file that points the host at domain.
func (p *Publisher) AddDomain(ctx context.Context, domain string) error {
	if domain == "" {
		return errors.ValidationError("domain is required").Build()
	}
	if _, err := p.open(); err != nil {
		return err
	}
	path := filepath.Join(p.dir, "CNAME")
	if err := os.WriteFile(path, []byte(domain+"\n"), 0o644); err != nil {
		return errors.FileSystemError("failed to write CNAME").WithCause(err).WithContext("path", path).Build()
	}
	observability.InfoContext(ctx, "Custom domain set", logfields.Name(domain), logfields.File(path))
	return nil
}

func (p *Publisher) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(p.dir)
	if err != nil {
		return nil, errors.GitError("not a git repository; run setup first").
			WithCause(err).
			WithContext("path", p.dir).
			UserAction().
			Build()
	}
	return repo, nil
}

func (p *Publisher) remoteURL(repo *git.Repository) string {
	r, err := repo.Remote(remoteName)
	if err != nil || len(r.Config().URLs) == 0 {
		return ""
	}
	return r.Config().URLs[0]
}

// stageAll adds new and modified files and removes deleted ones.
func stageAll(wt *git.Worktree) (bool, error) {
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	if status.IsClean() {
		return false, nil
	}
	for path, s := range status {
		switch s.Worktree {
		case git.Unmodified:
			continue
		case git.Deleted:
			if _, err := wt.Remove(path); err != nil {
				return false, err
			}
		default:
			if _, err := wt.Add(path); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err != nil || len(entries) == 0
}
