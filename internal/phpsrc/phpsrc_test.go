// SPDX-License-Identifier: MPL-2.0

package phpsrc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"simple", "[A::class, B::class]", []string{"A::class", "B::class"}},
		{"trailing comma", "[\n    A::class,\n    B::class,\n]", []string{"A::class", "B::class"}},
		{"nested calls", "[new P(f(1, 2)), ['a', 'b'], C::class]", []string{"new P(f(1, 2))", "['a', 'b']", "C::class"}},
		{"strings hide brackets", `['],[', "\",)", C::class]`, []string{`'],['`, `"\",)"`, "C::class"}},
		{"comments are trivia", "[\n    // first, second\n    A::class, /* ] */ B::class,\n    # hash, comment\n    C::class\n]", []string{"A::class", "B::class", "C::class"}},
		{"attributes are not comments", "(#[Inject('a, b')] Foo $foo, Bar $bar)", []string{"#[Inject('a, b')] Foo $foo", "Bar $bar"}},
		{"empty", "[]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			closeAt, items, ok := SplitList([]byte(tt.src), 1)
			require.True(t, ok)
			assert.Equal(t, len(tt.src)-1, closeAt)
			if tt.want == nil {
				assert.Empty(t, items)
				return
			}
			assert.Equal(t, tt.want, texts(items))
			for _, it := range items {
				assert.Equal(t, it.Text, tt.src[it.Start:it.End])
			}
		})
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"line comment", "a // b\nc", "a     \nc"},
		{"hash comment", "a # b\r\nc", "a    \r\nc"},
		{"block comment", "a /* b\nc */ d", "a     \n     d"},
		{"strings", `x('a//b', "c#d")`, "x(      ,      )"},
		{"attributes stay", "#[A] f()", "#[A] f()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Mask([]byte(tt.src))
			assert.Equal(t, tt.want, string(got))
			assert.Len(t, got, len(tt.src))
		})
	}
}

func TestSplitList_Unclosed(t *testing.T) {
	t.Parallel()

	_, _, ok := SplitList([]byte("[A::class, (B::class]"), 1)
	assert.False(t, ok)
}

func TestImports(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		`<?php`,
		`namespace App\Handler;`,
		`use Psr\Container\ContainerInterface;`,
		`use \Mezzio\Template\TemplateRendererInterface as Renderer;`,
		`use Acme\{Mailer, Queue\Producer as Jobs};`,
		`use A\B, C\D as E;`,
		`use function strlen;`,
		`use const PHP_EOL;`,
	}, "\n")

	assert.Equal(t, map[string]string{
		"containerinterface": `Psr\Container\ContainerInterface`,
		"renderer":           `Mezzio\Template\TemplateRendererInterface`,
		"mailer":             `Acme\Mailer`,
		"jobs":               `Acme\Queue\Producer`,
		"b":                  `A\B`,
		"e":                  `C\D`,
	}, Imports([]byte(src)))
}

func TestResolveName(t *testing.T) {
	t.Parallel()

	imports := map[string]string{
		"renderer": `Mezzio\Template\TemplateRendererInterface`,
		"acme":     `Vendor\Acme`,
	}

	tests := []struct {
		ref, ns, want string
	}{
		{`\Psr\Log\LoggerInterface`, `App`, `Psr\Log\LoggerInterface`},
		{`Renderer`, `App`, `Mezzio\Template\TemplateRendererInterface`},
		{`Acme\Mailer`, `App`, `Vendor\Acme\Mailer`},
		{`Service\Clock`, `App\Handler`, `App\Handler\Service\Clock`},
		{`Clock`, ``, `Clock`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveName(tt.ref, imports, tt.ns), tt.ref)
	}
}

func TestNamespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `App\Handler`, Namespace([]byte("<?php\n\ndeclare(strict_types=1);\n\nnamespace App\\Handler;\n")))
	assert.Equal(t, `Blog`, Namespace([]byte("<?php\nnamespace Blog {\n}\n")))
	assert.Empty(t, Namespace([]byte("<?php\nreturn [];\n")))
}
