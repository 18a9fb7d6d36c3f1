// Package prefixctx resolves short hex prefixes of commit and change ids
// to their full ids, optionally disambiguating against a narrower scope
// of commits before falling back to the repository-wide index.
package prefixctx

import (
	"context"
	"log/slog"
	"sync"

	"github.com/steveyegge/treestore/internal/idindex"
	"github.com/steveyegge/treestore/internal/objid"
)

// CommitRef pairs a commit id with the change id it records, the unit a
// Scope enumerates to build the disambiguation indexes.
type CommitRef struct {
	CommitID objid.CommitId
	ChangeID objid.ChangeId
}

// Scope produces the set of commits an IdPrefixContext should prefer when
// disambiguating a prefix, e.g. "commits reachable from the current
// workspace's working copy". Evaluating a scope can fail (it may need to
// resolve a stored revision expression against the repo), so it happens
// lazily, once, the first time a resolution is attempted.
type Scope interface {
	Commits(repo Repo) ([]CommitRef, error)
}

// Repo is the narrow slice of repository-wide lookups an IdPrefixContext
// falls back to once a scope either isn't configured or can't be
// evaluated.
type Repo interface {
	ResolveCommitPrefix(prefix objid.HexPrefix) objid.PrefixResolution[objid.CommitId]
	ShortestUniqueCommitPrefixLen(id objid.CommitId) int
	ResolveChangePrefix(prefix objid.HexPrefix) objid.PrefixResolution[[]objid.CommitId]
	ShortestUniqueChangePrefixLen(id objid.ChangeId) int
}

type scopeIndexes struct {
	commitIndex *idindex.IdIndex[objid.CommitId, objid.CommitId]
	changeIndex *idindex.IdIndex[objid.ChangeId, objid.CommitId]
}

// IdPrefixContext resolves hex prefixes, consulting an optional Scope
// before the repo-wide index. The scope's indexes are built at most once,
// lazily, on first use — mirroring a OnceCell rather than eagerly paying
// for a revset evaluation that might never be needed.
type IdPrefixContext struct {
	logger *slog.Logger
	scope  Scope

	once     sync.Once
	indexes  *scopeIndexes
	buildErr error
}

// New returns a context with no disambiguation scope: every resolution
// goes straight to the repo-wide index.
func New(logger *slog.Logger) *IdPrefixContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdPrefixContext{logger: logger}
}

// DisambiguateWithin returns a new context that prefers scope over the
// repo-wide index, leaving the receiver untouched. This mirrors the
// builder-style "consume self, return Self" pattern the id resolver was
// ported from; Go has no move semantics to enforce the consumption, so
// callers should simply stop using the receiver once they have the
// returned context.
func (c *IdPrefixContext) DisambiguateWithin(scope Scope) *IdPrefixContext {
	return &IdPrefixContext{logger: c.logger, scope: scope}
}

// scopeIndexesFor lazily builds and caches the scope's commit/change
// indexes. A build failure is logged and remembered as "no scope" rather
// than returned to the caller — every resolution method below falls back
// to the repo-wide index in that case, matching the upstream behavior of
// treating disambiguation as a best-effort narrowing, never a hard
// dependency.
func (c *IdPrefixContext) scopeIndexesFor(ctx context.Context, repo Repo) *scopeIndexes {
	if c.scope == nil {
		return nil
	}
	c.once.Do(func() {
		refs, err := c.scope.Commits(repo)
		if err != nil {
			c.buildErr = err
			return
		}
		commitPairs := make([]idindex.Pair[objid.CommitId, objid.CommitId], 0, len(refs))
		changePairs := make([]idindex.Pair[objid.ChangeId, objid.CommitId], 0, len(refs))
		for _, ref := range refs {
			commitPairs = append(commitPairs, idindex.Pair[objid.CommitId, objid.CommitId]{Key: ref.CommitID, Value: ref.CommitID})
			changePairs = append(changePairs, idindex.Pair[objid.ChangeId, objid.CommitId]{Key: ref.ChangeID, Value: ref.CommitID})
		}
		c.indexes = &scopeIndexes{
			commitIndex: idindex.FromVec(commitPairs),
			changeIndex: idindex.FromVec(changePairs),
		}
	})
	if c.buildErr != nil {
		c.logger.WarnContext(ctx, "prefixctx: disambiguation scope unavailable, falling back to repo-wide index", "error", c.buildErr)
		return nil
	}
	return c.indexes
}

// ResolveCommitPrefix resolves prefix to an unambiguous commit id, first
// within the disambiguation scope (if prefix resolves to a single commit
// there) and otherwise, including when the scope finds no match or an
// ambiguous one, across the whole repo.
func (c *IdPrefixContext) ResolveCommitPrefix(ctx context.Context, repo Repo, prefix objid.HexPrefix) objid.PrefixResolution[objid.CommitId] {
	if idx := c.scopeIndexesFor(ctx, repo); idx != nil {
		if res := idx.commitIndex.ResolvePrefix(prefix); res.Kind() == objid.SingleMatch {
			ids, _ := res.Value()
			return objid.NewSingleMatch(ids[0])
		}
	}
	return repo.ResolveCommitPrefix(prefix)
}

// ShortestCommitPrefixLen returns the fewest hex digits of id that
// ResolveCommitPrefix can still resolve unambiguously.
func (c *IdPrefixContext) ShortestCommitPrefixLen(ctx context.Context, repo Repo, id objid.CommitId) int {
	if idx := c.scopeIndexesFor(ctx, repo); idx != nil && idx.commitIndex.HasKey(id) {
		return idx.commitIndex.ShortestUniquePrefixLen(id)
	}
	return repo.ShortestUniqueCommitPrefixLen(id)
}

// ResolveChangePrefix resolves prefix to the commit ids recording the
// matching change, first within the disambiguation scope and otherwise
// across the whole repo.
func (c *IdPrefixContext) ResolveChangePrefix(ctx context.Context, repo Repo, prefix objid.HexPrefix) objid.PrefixResolution[[]objid.CommitId] {
	if idx := c.scopeIndexesFor(ctx, repo); idx != nil {
		if res := idx.changeIndex.ResolvePrefix(prefix); res.Kind() == objid.SingleMatch {
			return res
		}
	}
	return repo.ResolveChangePrefix(prefix)
}

// ShortestChangePrefixLen returns the fewest hex digits of id that
// ResolveChangePrefix can still resolve unambiguously.
func (c *IdPrefixContext) ShortestChangePrefixLen(ctx context.Context, repo Repo, id objid.ChangeId) int {
	if idx := c.scopeIndexesFor(ctx, repo); idx != nil && idx.changeIndex.HasKey(id) {
		return idx.changeIndex.ShortestUniquePrefixLen(id)
	}
	return repo.ShortestUniqueChangePrefixLen(id)
}
