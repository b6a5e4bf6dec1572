package contexts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocument struct {
	path string
}

func (f fakeDocument) ActiveDocument() (string, bool) {
	return f.path, f.path != ""
}

type fakeFinder map[string]string

func (f fakeFinder) FindRoot(dir string) (string, bool) {
	root, ok := f[dir]
	return root, ok
}

func TestMatcherIsAncestor(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		root   string
		path   string
		want   bool
	}{
		{"equal", false, "/p/x", "/p/x", true},
		{"child", false, "/p", "/p/x", true},
		{"loose sibling prefix", false, "/foo", "/foobar", true},
		{"unrelated", false, "/q", "/p/x", false},
		{"empty root", false, "", "/p/x", false},
		{"strict equal", true, "/p/x", "/p/x", true},
		{"strict child", true, "/p", "/p/x", true},
		{"strict trailing separator", true, "/p/", "/p/x", true},
		{"strict sibling prefix", true, "/foo", "/foobar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Matcher{StrictPaths: tt.strict}
			assert.Equal(t, tt.want, m.IsAncestor(tt.root, tt.path))
		})
	}
}

func TestStaticRelevant(t *testing.T) {
	res := NewStatic(map[Type]string{
		Document:  "/p/x/main.go",
		Directory: "/p/x",
		Project:   "/p",
	})

	assert.True(t, res.Relevant(Document, "/p/x/main.go"))
	assert.False(t, res.Relevant(Document, "/p/x/other.go"))
	assert.True(t, res.Relevant(Directory, "/p"))
	assert.True(t, res.Relevant(Directory, "/p/x"))
	assert.False(t, res.Relevant(Directory, "/p/x/y"))
	assert.True(t, res.Relevant(Project, "/p"))
	assert.False(t, res.Relevant(Project, "/q"))

	// Project relevance is measured against the current directory, not the
	// current project value.
	res.Set(Project, "/elsewhere")
	assert.True(t, res.Relevant(Project, "/p"))

	res.Unset(Directory)
	assert.False(t, res.Relevant(Directory, "/p"))
	assert.False(t, res.Relevant(Project, "/p"))
}

func TestStaticZeroValue(t *testing.T) {
	var res Static

	_, ok := res.Current(Directory)
	assert.False(t, ok)

	res.Set(Directory, "/p")
	value, ok := res.Current(Directory)
	assert.True(t, ok)
	assert.Equal(t, "/p", value)
	assert.True(t, res.Relevant(Project, "/p"))
}

func TestStaticCustomType(t *testing.T) {
	res := NewStatic(map[Type]string{"branch": "main"})

	assert.True(t, res.Relevant("branch", "main"))
	assert.False(t, res.Relevant("branch", "dev"))
	assert.False(t, res.Relevant("host", "main"))
}

func TestResolverCurrent(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "cmd")
	require.NoError(t, os.Mkdir(sub, 0o755))

	res := New(Options{
		Directory: func() (string, error) { return sub, nil },
		Document:  fakeDocument{path: filepath.Join(sub, "main.go")},
		Projects:  fakeFinder{filepath.Clean(sub): dir},
	})

	got, ok := res.Current(Directory)
	require.True(t, ok)
	assert.Equal(t, filepath.Clean(sub), got)

	got, ok = res.Current(Project)
	require.True(t, ok)
	assert.Equal(t, dir, got)

	got, ok = res.Current(Document)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sub, "main.go"), got)

	_, ok = res.Current("unknown")
	assert.False(t, ok)

	assert.True(t, res.Relevant(Project, dir))
	assert.True(t, res.Relevant(Directory, sub))
}

func TestResolverWithoutSources(t *testing.T) {
	res := New(Options{
		Directory: func() (string, error) { return "", errors.New("gone") },
	})

	for _, typ := range DefaultTypes() {
		_, ok := res.Current(typ)
		assert.False(t, ok, "Current(%s)", typ)
	}
}

func TestResolverFollowSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Mkdir(target, 0o755))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	res := New(Options{
		Directory:      func() (string, error) { return link, nil },
		FollowSymlinks: true,
	})

	got, ok := res.Current(Directory)
	require.True(t, ok)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRequire(t *testing.T) {
	res := NewStatic(map[Type]string{Directory: "/p"})

	value, err := Require(res, Directory)
	require.NoError(t, err)
	assert.Equal(t, "/p", value)

	_, err = Require(res, Document)
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestParseTypes(t *testing.T) {
	got := ParseTypes([]string{" Document", "", "PROJECT"})
	assert.Equal(t, []Type{Document, Project}, got)
	assert.True(t, Contains(got, Project))
	assert.False(t, Contains(got, Directory))
}
