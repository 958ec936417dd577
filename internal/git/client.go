package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Client syncs one repository into its clone directory.
type Client struct {
	repo config.RepositoryConfig
}

// NewClient creates a client for repo.
func NewClient(repo config.RepositoryConfig) *Client {
	return &Client{repo: repo}
}

// SyncResult describes the state of the clone after a sync.
type SyncResult struct {
	Path     string
	Branch   string
	Head     string // commit hash after the sync
	Previous string // commit hash before the sync, empty after a fresh clone
	Cloned   bool
}

// Changed reports whether the sync moved HEAD.
func (r SyncResult) Changed() bool {
	return r.Cloned || r.Head != r.Previous
}

// Sync clones the repository when the clone directory holds none and fast-forwards it otherwise.
func (c *Client) Sync(ctx context.Context) (SyncResult, error) {
	if _, err := os.Stat(filepath.Join(c.repo.CloneDir, ".git")); err != nil {
		return c.clone(ctx)
	}
	return c.update(ctx)
}

func (c *Client) clone(ctx context.Context) (SyncResult, error) {
	res := SyncResult{Path: c.repo.CloneDir, Branch: c.repo.Branch, Cloned: true}
	slog.Debug("Cloning repository", logfields.Repository(c.repo.URL), logfields.Branch(c.repo.Branch), logfields.Path(c.repo.CloneDir))

	if err := os.RemoveAll(c.repo.CloneDir); err != nil {
		return res, errors.FileSystemError("failed to clear clone directory").
			WithCause(err).WithContext("path", c.repo.CloneDir).Build()
	}

	opts := &git.CloneOptions{
		URL:           c.repo.URL,
		ReferenceName: plumbing.NewBranchReferenceName(c.repo.Branch),
		SingleBranch:  true,
		Depth:         c.repo.Depth,
		Auth:          c.auth(),
	}
	repository, err := git.PlainCloneContext(ctx, c.repo.CloneDir, false, opts)
	if err != nil {
		return res, classify("clone", c.repo.URL, err)
	}

	head, err := repository.Head()
	if err != nil {
		return res, errors.GitError("failed to read HEAD").WithCause(err).Build()
	}
	res.Head = head.Hash().String()
	slog.Info("Repository cloned", logfields.Repository(c.repo.URL), logfields.Branch(c.repo.Branch), slog.String("commit", short(res.Head)))
	return res, nil
}

func (c *Client) update(ctx context.Context) (SyncResult, error) {
	res := SyncResult{Path: c.repo.CloneDir, Branch: c.repo.Branch}

	repository, err := git.PlainOpen(c.repo.CloneDir)
	if err != nil {
		return res, errors.GitError("failed to open clone").WithCause(err).WithContext("path", c.repo.CloneDir).Build()
	}
	if head, err := repository.Head(); err == nil {
		res.Previous = head.Hash().String()
	}

	refSpec := ggitcfg.RefSpec("+refs/heads/" + c.repo.Branch + ":refs/remotes/origin/" + c.repo.Branch)
	err = repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{refSpec},
		Depth:      c.repo.Depth,
		Tags:       git.NoTags,
		Auth:       c.auth(),
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return res, classify("fetch", c.repo.URL, err)
	}

	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", c.repo.Branch), true)
	if err != nil {
		return res, errors.GitError("remote branch not found").
			WithCause(err).WithContext("branch", c.repo.Branch).UserAction().Build()
	}

	wt, err := repository.Worktree()
	if err != nil {
		return res, errors.GitError("failed to open worktree").WithCause(err).Build()
	}
	local := plumbing.NewBranchReferenceName(c.repo.Branch)
	checkout := &git.CheckoutOptions{Branch: local, Force: true}
	if _, err := repository.Reference(local, true); err != nil {
		checkout.Create = true
		checkout.Hash = remoteRef.Hash()
	}
	if err := wt.Checkout(checkout); err != nil {
		return res, errors.GitError("checkout failed").WithCause(err).WithContext("branch", c.repo.Branch).Build()
	}

	if res.Previous != "" && res.Previous != remoteRef.Hash().String() {
		ff, aerr := isAncestor(repository, plumbing.NewHash(res.Previous), remoteRef.Hash())
		if aerr == nil && !ff {
			slog.Warn("Local branch diverged from remote; resetting", logfields.Repository(c.repo.URL), logfields.Branch(c.repo.Branch))
		}
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return res, errors.GitError("reset to remote head failed").WithCause(err).Build()
	}
	res.Head = remoteRef.Hash().String()

	if res.Changed() {
		slog.Info("Repository updated", logfields.Repository(c.repo.URL), logfields.Branch(c.repo.Branch),
			slog.String("from", short(res.Previous)), slog.String("to", short(res.Head)))
	} else {
		slog.Debug("Repository already up-to-date", logfields.Repository(c.repo.URL), slog.String("commit", short(res.Head)))
	}
	return res, nil
}

// auth returns HTTP basic auth when a token is configured.
func (c *Client) auth() transport.AuthMethod {
	if c.repo.Token == "" {
		return nil
	}
	user := c.repo.Username
	if user == "" {
		user = "git"
	}
	return &http.BasicAuth{Username: user, Password: c.repo.Token}
}

// classify maps go-git failures to classified errors. Authentication and missing
// repositories need user action; everything else is retried on the next sync.
func classify(op, url string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	b := errors.GitError("git " + op + " failed").WithCause(err).WithContext("url", url)
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired), stderrors.Is(err, transport.ErrAuthorizationFailed):
		b = b.UserAction()
	case stderrors.Is(err, transport.ErrRepositoryNotFound):
		b = b.UserAction()
	default:
		l := strings.ToLower(err.Error())
		if strings.Contains(l, "authentication") || strings.Contains(l, "not found") {
			b = b.UserAction()
		}
	}
	return b.Build()
}

// isAncestor reports whether a is reachable from b.
func isAncestor(repo *git.Repository, a, b plumbing.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true, nil
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			return false, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false, nil
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
