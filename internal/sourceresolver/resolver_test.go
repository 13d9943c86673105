package sourceresolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	cgerrors "github.com/standardbeagle/cachelens/internal/errors"
)

func TestResolveExactPath(t *testing.T) {
	files := Files{"src/main.c": "int main() {}"}
	text, err := Resolve("src/main.c", files, Options{})
	require.NoError(t, err)
	require.Equal(t, "int main() {}", text)
}

func TestResolveSubdirPrefix(t *testing.T) {
	files := Files{"project/src/main.c": "int main() {}"}
	text, err := Resolve("src/main.c", files, Options{Subdir: "project"})
	require.NoError(t, err)
	require.Equal(t, "int main() {}", text)
}

func TestResolveSubdirSrcFallback(t *testing.T) {
	files := Files{"project/src/main.c": "int main() {}"}
	text, err := Resolve("main.c", files, Options{Subdir: "project"})
	require.NoError(t, err)
	require.Equal(t, "int main() {}", text)
}

func TestResolveBasenameFallback(t *testing.T) {
	files := Files{"somewhere/deep/main.c": "int main() {}"}
	text, err := Resolve("unrelated/path/main.c", files, Options{})
	require.NoError(t, err)
	require.Equal(t, "int main() {}", text)
}

func TestResolveFallbackFindsKeyWithSharedSuffix(t *testing.T) {
	files := Files{"repo/pkg/util/helper.c": "void helper() {}"}
	text, err := Resolve("pkg/util/helper.c", files, Options{})
	require.NoError(t, err)
	require.Equal(t, "void helper() {}", text)
}

func TestResolveNotFound(t *testing.T) {
	files := Files{"a.c": "content"}
	_, err := Resolve("b.c", files, Options{})
	require.Error(t, err)
	var re *cgerrors.ResolveError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "b.c", re.Path)
}

func TestResolveBinaryContentYieldsAbsent(t *testing.T) {
	files := Files{"main.c": string([]byte{0xff, 0xfe, 0x00, 0x01})}
	_, err := Resolve("main.c", files, Options{})
	require.Error(t, err)
	var re *cgerrors.ResolveError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "main.c", re.Path)
}

func TestResolveSkipsBinaryExactMatchAndFallsBackToBasename(t *testing.T) {
	files := Files{
		"src/main.c":    string([]byte{0xff, 0xfe, 0x00, 0x01}),
		"vendor/main.c": "int main() {}",
	}
	text, err := Resolve("src/main.c", files, Options{})
	require.NoError(t, err)
	require.Equal(t, "int main() {}", text)
}
