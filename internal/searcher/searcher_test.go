package searcher

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dl/grepcore/internal/matcher"
)

// recorder is a Sink that keeps a readable trace of every event.
type recorder struct {
	events    []string
	subs      [][]matcher.Span
	begun     int
	finish    *SinkFinish
	stopAfter int // stop after this many matches; 0 means never
	matches   int
}

func (r *recorder) Begin(*Searcher, string) (bool, error) {
	r.begun++
	return true, nil
}

func (r *recorder) Matched(_ *Searcher, m *SinkMatch) (bool, error) {
	r.events = append(r.events, fmt.Sprintf("match %d@%d %q", m.LineNumber, m.AbsoluteByteOffset, m.Bytes))
	var spans []matcher.Span
	for _, sm := range m.Submatches {
		spans = append(spans, sm.Span)
	}
	r.subs = append(r.subs, spans)
	r.matches++
	return r.stopAfter == 0 || r.matches < r.stopAfter, nil
}

func (r *recorder) Context(_ *Searcher, c *SinkContext) (bool, error) {
	r.events = append(r.events, fmt.Sprintf("%s %d@%d %q", c.Kind, c.LineNumber, c.AbsoluteByteOffset, c.Bytes))
	return true, nil
}

func (r *recorder) ContextBreak(*Searcher) (bool, error) {
	r.events = append(r.events, "--")
	return true, nil
}

func (r *recorder) BinaryData(_ *Searcher, offset int64) (bool, error) {
	r.events = append(r.events, fmt.Sprintf("binary@%d", offset))
	return true, nil
}

func (r *recorder) Finish(_ *Searcher, f *SinkFinish) error {
	fin := *f
	r.finish = &fin
	return nil
}

func literal(t testing.TB, pattern string) matcher.Matcher {
	t.Helper()
	return matcher.NewLiteralMatcher(pattern, false)
}

func regex(t testing.TB, pattern string) matcher.Matcher {
	t.Helper()
	m, err := matcher.NewRegexMatcher(pattern, false)
	require.NoError(t, err)
	return m
}

func search(t testing.TB, cfg Config, m matcher.Matcher, input string) *recorder {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	rec := &recorder{}
	require.NoError(t, s.SearchReader(m, "test", strings.NewReader(input), rec))
	return rec
}

func withContext(before, after int) Config {
	cfg := DefaultConfig()
	cfg.BeforeContext = before
	cfg.AfterContext = after
	return cfg
}

func TestSearch_ContextAroundMatch(t *testing.T) {
	rec := search(t, withContext(1, 1), literal(t, "bar"), "foo\nbar\nbaz\n")

	assert.Equal(t, []string{
		`before 1@0 "foo\n"`,
		`match 2@4 "bar\n"`,
		`after 3@8 "baz\n"`,
	}, rec.events)
	require.NotNil(t, rec.finish)
	assert.Equal(t, int64(12), rec.finish.ByteCount)
	assert.Equal(t, int64(-1), rec.finish.BinaryByteOffset)
	assert.False(t, rec.finish.BinaryAbort)
	assert.Equal(t, 1, rec.begun)
}

func TestSearch_NoTrailingTerminator(t *testing.T) {
	rec := search(t, DefaultConfig(), literal(t, "abc"), "abc")

	assert.Equal(t, []string{`match 1@0 "abc"`}, rec.events)
	assert.Equal(t, [][]matcher.Span{{{Start: 0, End: 3}}}, rec.subs)
	assert.Equal(t, int64(3), rec.finish.ByteCount)
}

func TestSearch_EmptyInput(t *testing.T) {
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.MultiLine = multi
		rec := search(t, cfg, regex(t, ""), "")
		assert.Empty(t, rec.events)
		require.NotNil(t, rec.finish)
		assert.Equal(t, int64(0), rec.finish.ByteCount)
	}
}

func TestSearch_EmptyMatchesOncePerLine(t *testing.T) {
	input := "a\nbb\n\nccc"
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.MultiLine = multi
		rec := search(t, cfg, regex(t, "x*"), input)
		assert.Equal(t, []string{
			`match 1@0 "a\n"`,
			`match 2@2 "bb\n"`,
			`match 3@5 "\n"`,
			`match 4@6 "ccc"`,
		}, rec.events, "multiline=%v", multi)
	}
}

func TestSearch_Submatches(t *testing.T) {
	rec := search(t, DefaultConfig(), literal(t, "ab"), "xx\nxabxab\n")

	require.Len(t, rec.subs, 1)
	assert.Equal(t, []matcher.Span{{Start: 1, End: 3}, {Start: 4, End: 6}}, rec.subs[0])
}

func TestSearch_ContextMerging(t *testing.T) {
	tests := []struct {
		name   string
		before int
		after  int
		input  string
		want   []string
	}{
		{
			name:   "after window reaches next match",
			before: 1, after: 1,
			input: "a\nm\nb\nm\nc\n",
			want: []string{
				`before 1@0 "a\n"`,
				`match 2@2 "m\n"`,
				`after 3@4 "b\n"`,
				`match 4@6 "m\n"`,
				`after 5@8 "c\n"`,
			},
		},
		{
			name:   "after and before windows touch",
			before: 1, after: 1,
			input: "m\n1\n2\nm\n",
			want: []string{
				`match 1@0 "m\n"`,
				`after 2@2 "1\n"`,
				`before 3@4 "2\n"`,
				`match 4@6 "m\n"`,
			},
		},
		{
			name:   "gap between groups",
			before: 1, after: 1,
			input: "m\n1\n2\n3\nm\n",
			want: []string{
				`match 1@0 "m\n"`,
				`after 2@2 "1\n"`,
				"--",
				`before 4@6 "3\n"`,
				`match 5@8 "m\n"`,
			},
		},
		{
			name:   "adjacent matches",
			before: 2, after: 0,
			input: "m\nm\n",
			want: []string{
				`match 1@0 "m\n"`,
				`match 2@2 "m\n"`,
			},
		},
		{
			name:   "no context means no breaks",
			before: 0, after: 0,
			input: "m\n1\nm\n",
			want: []string{
				`match 1@0 "m\n"`,
				`match 3@4 "m\n"`,
			},
		},
		{
			name:   "before context limited by start of input",
			before: 3, after: 0,
			input: "1\nm\n",
			want: []string{
				`before 1@0 "1\n"`,
				`match 2@2 "m\n"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, multi := range []bool{false, true} {
				cfg := withContext(tt.before, tt.after)
				cfg.MultiLine = multi
				rec := search(t, cfg, literal(t, "m"), tt.input)
				assert.Equal(t, tt.want, rec.events, "multiline=%v", multi)
			}
		})
	}
}

func TestSearch_InvertMatch(t *testing.T) {
	tests := []struct {
		name          string
		before, after int
		input         string
		want          []string
	}{
		{
			name:  "no context",
			input: "a\nfoo\nb\n",
			want: []string{
				`match 1@0 "a\n"`,
				`match 3@6 "b\n"`,
			},
		},
		{
			name:   "matching lines become context",
			before: 1, after: 1,
			input: "x\nfoo\ny\nfoo\nfoo\nfoo\nz\n",
			want: []string{
				`match 1@0 "x\n"`,
				`after 2@2 "foo\n"`,
				`match 3@6 "y\n"`,
				`after 4@8 "foo\n"`,
				"--",
				`before 6@16 "foo\n"`,
				`match 7@20 "z\n"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, multi := range []bool{false, true} {
				cfg := withContext(tt.before, tt.after)
				cfg.InvertMatch = true
				cfg.MultiLine = multi
				rec := search(t, cfg, literal(t, "foo"), tt.input)
				assert.Equal(t, tt.want, rec.events, "multiline=%v", multi)
				for _, subs := range rec.subs {
					assert.Empty(t, subs)
				}
			}
		})
	}
}

func TestSearch_Passthru(t *testing.T) {
	for _, multi := range []bool{false, true} {
		cfg := withContext(5, 5)
		cfg.Passthru = true
		cfg.MultiLine = multi
		rec := search(t, cfg, literal(t, "foo"), "a\nfoo\nb\n")
		assert.Equal(t, []string{
			`other 1@0 "a\n"`,
			`match 2@2 "foo\n"`,
			`other 3@6 "b\n"`,
		}, rec.events, "multiline=%v", multi)
	}
}

func TestSearch_SmallBufferMatchesLargeBuffer(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		if i%7 == 3 {
			fmt.Fprintf(&sb, "line %03d needle here\n", i)
		} else {
			fmt.Fprintf(&sb, "line %03d\n", i)
		}
	}
	sb.WriteString("needle without terminator")
	input := sb.String()

	base := withContext(2, 1)
	want := search(t, base, literal(t, "needle"), input)
	require.NotEmpty(t, want.events)

	small := base
	small.BufferCapacity = 4
	got := search(t, small, literal(t, "needle"), input)
	assert.Equal(t, want.events, got.events)
	assert.Equal(t, want.finish, got.finish)

	multi := base
	multi.MultiLine = true
	got = search(t, multi, literal(t, "needle"), input)
	assert.Equal(t, want.events, got.events)
	assert.Equal(t, want.subs, got.subs)
	assert.Equal(t, int64(len(input)), got.finish.ByteCount)

	// \s could reach from "line 004" into the next line. Only the needle
	// lines match without crossing a terminator.
	for _, capacity := range []int{4, 16, DefaultBufferCapacity} {
		cfg := base
		cfg.BufferCapacity = capacity
		got = search(t, cfg, regex(t, `\d\s+\w|needle`), input)
		assert.Equal(t, want.events, got.events, "capacity %d", capacity)
	}
}

func TestSearch_MatchesStayOnOneLine(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []string
		subs    [][]matcher.Span
	}{
		{
			name:    "whitespace class stops at the terminator",
			pattern: `a\s+b`,
			input:   "foo a\nbar\nbaz\n",
		},
		{
			name:    "negated class stops at the terminator",
			pattern: `a[^x]*`,
			input:   "a\nb\nc\n",
			want:    []string{`match 1@0 "a\n"`},
			subs:    [][]matcher.Span{{{Start: 0, End: 1}}},
		},
		{
			name:    "terminator itself never matches",
			pattern: `\n`,
			input:   "a\nb\n",
		},
		{
			name:    "candidate line fails but a later line matches",
			pattern: `o\s+t|two`,
			input:   "foo\ntwo\n",
			want:    []string{`match 2@4 "two\n"`},
			subs:    [][]matcher.Span{{{Start: 0, End: 3}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, capacity := range []int{4, 64} {
				cfg := DefaultConfig()
				cfg.BufferCapacity = capacity
				rec := search(t, cfg, regex(t, tt.pattern), tt.input)
				assert.Equal(t, tt.want, rec.events, "capacity %d", capacity)
				assert.Equal(t, tt.subs, rec.subs, "capacity %d", capacity)
			}
		})
	}
}

func TestSearch_AnchoredSubmatches(t *testing.T) {
	rec := search(t, DefaultConfig(), regex(t, `^a`), "aaa\nbab\n")

	assert.Equal(t, []string{`match 1@0 "aaa\n"`}, rec.events)
	assert.Equal(t, [][]matcher.Span{{{Start: 0, End: 1}}}, rec.subs)
}

func TestSearch_ByteOffsetsSliceOriginal(t *testing.T) {
	input := "alpha\nbeta gamma\ndelta gamma\n"
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	var checked int
	sink := SinkFuncs{OnMatched: func(m *SinkMatch) (bool, error) {
		for _, sm := range m.Submatches {
			start := m.AbsoluteByteOffset + int64(sm.Start)
			end := m.AbsoluteByteOffset + int64(sm.End)
			assert.Equal(t, "gamma", input[start:end])
			checked++
		}
		return true, nil
	}}
	require.NoError(t, s.SearchSlice(literal(t, "gamma"), "test", []byte(input), sink))
	assert.Equal(t, 2, checked)
}

func TestSearch_MultilineMatchSpansLines(t *testing.T) {
	cfg := withContext(1, 1)
	cfg.MultiLine = true
	rec := search(t, cfg, regex(t, `foo\nbar`), "x\nfoo\nbar\ny\nz\n")

	assert.Equal(t, []string{
		`before 1@0 "x\n"`,
		`match 2@2 "foo\nbar\n"`,
		`after 4@10 "y\n"`,
	}, rec.events)
	assert.Equal(t, [][]matcher.Span{{{Start: 0, End: 7}}}, rec.subs)
	assert.Equal(t, int64(14), rec.finish.ByteCount)
}

func TestSearch_MultilineMergesMatchesSharingALine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiLine = true
	rec := search(t, cfg, regex(t, `b\nc|c`), "a\nb\ncc\n")

	assert.Equal(t, []string{`match 2@2 "b\ncc\n"`}, rec.events)
}

func TestSearch_BinaryQuit(t *testing.T) {
	input := "foo\nbar\x00foo\nfoo\n"
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Binary = QuitOnBinary(0)
		cfg.MultiLine = multi
		rec := search(t, cfg, literal(t, "foo"), input)

		assert.Equal(t, []string{`match 1@0 "foo\n"`, "binary@7"}, rec.events, "multiline=%v", multi)
		require.NotNil(t, rec.finish)
		assert.True(t, rec.finish.BinaryAbort)
		assert.Equal(t, int64(7), rec.finish.BinaryByteOffset)
		assert.Equal(t, int64(7), rec.finish.ByteCount)
	}
}

func TestSearch_BinaryQuitSearchesPartialLine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Binary = QuitOnBinary(0)
	rec := search(t, cfg, literal(t, "foo"), "xfoo\x00foo\n")

	assert.Equal(t, []string{`match 1@0 "xfoo"`, "binary@4"}, rec.events)
}

func TestSearch_BinaryConvert(t *testing.T) {
	input := []byte("foo\x00bar\nbaz\n")
	orig := string(input)
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Binary = ConvertBinary(0)
		cfg.MultiLine = multi
		s, err := New(cfg)
		require.NoError(t, err)

		rec := &recorder{}
		require.NoError(t, s.SearchSlice(literal(t, "bar"), "test", input, rec))
		assert.Equal(t, []string{"binary@3", `match 2@4 "bar\n"`}, rec.events, "multiline=%v", multi)
		assert.False(t, rec.finish.BinaryAbort)
		assert.Equal(t, int64(3), rec.finish.BinaryByteOffset)
		assert.Equal(t, int64(len(input)), rec.finish.ByteCount)
		assert.Equal(t, orig, string(input), "caller data must not change")
	}
}

func TestSearch_LineTooLong(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLineLength = 5
	s, err := New(cfg)
	require.NoError(t, err)

	rec := &recorder{}
	err = s.SearchReader(literal(t, "x"), "test", strings.NewReader("short\nwaytoolong\n"), rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLineTooLong))

	var tooLong *LineTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, int64(6), tooLong.Offset)
	assert.Equal(t, 5, tooLong.Limit)
	assert.Nil(t, rec.finish, "finish is not called on fatal errors")

	// The searcher is reusable after a fatal error.
	rec = &recorder{}
	require.NoError(t, s.SearchReader(literal(t, "ok"), "test", strings.NewReader("ok\n"), rec))
	assert.Equal(t, []string{`match 1@0 "ok\n"`}, rec.events)
}

func TestSearch_LineTooLongAcrossReads(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLineLength = 10
	cfg.BufferCapacity = 4
	s, err := New(cfg)
	require.NoError(t, err)

	err = s.SearchReader(literal(t, "x"), "test", strings.NewReader("ok\n"+strings.Repeat("y", 50)), &recorder{})
	assert.ErrorIs(t, err, ErrLineTooLong)
}

func TestSearch_ResourceExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiLine = true
	cfg.HeapLimit = 4
	s, err := New(cfg)
	require.NoError(t, err)

	err = s.SearchReader(literal(t, "a"), "test", strings.NewReader("abcdefgh"), &recorder{})
	assert.ErrorIs(t, err, ErrResourceExceeded)

	err = s.SearchSlice(literal(t, "a"), "test", []byte("abcdefgh"), &recorder{})
	var re *ResourceExceededError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, int64(4), re.Limit)

	require.NoError(t, s.SearchSlice(literal(t, "a"), "test", []byte("abc"), &recorder{}))
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestSearch_ReadError(t *testing.T) {
	boom := errors.New("boom")
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.MultiLine = multi
		s, err := New(cfg)
		require.NoError(t, err)

		err = s.SearchReader(literal(t, "a"), "broken", failingReader{err: boom}, &recorder{})
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "broken", readErr.Input)
		assert.ErrorIs(t, err, boom)
	}
}

func TestSearch_SinkStop(t *testing.T) {
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.MultiLine = multi
		s, err := New(cfg)
		require.NoError(t, err)

		rec := &recorder{stopAfter: 1}
		require.NoError(t, s.SearchSlice(literal(t, "a"), "test", []byte("a\na\na\n"), rec))
		assert.Equal(t, []string{`match 1@0 "a\n"`}, rec.events)
		require.NotNil(t, rec.finish, "finish is called after a stop")
		assert.Equal(t, int64(2), rec.finish.ByteCount)
	}
}

func TestSearch_BeginStop(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	var finished bool
	sink := &beginStopper{finished: &finished}
	require.NoError(t, s.SearchSlice(literal(t, "a"), "test", []byte("a\n"), sink))
	assert.True(t, finished)
}

type beginStopper struct {
	NopSink
	finished *bool
}

func (b *beginStopper) Begin(*Searcher, string) (bool, error) { return false, nil }

func (b *beginStopper) Matched(*Searcher, *SinkMatch) (bool, error) {
	panic("no match expected after Begin stopped the search")
}

func (b *beginStopper) Finish(*Searcher, *SinkFinish) error {
	*b.finished = true
	return nil
}

func TestSearch_SinkError(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	boom := errors.New("sink failed")
	var finished bool
	sink := SinkFuncs{
		OnMatched: func(*SinkMatch) (bool, error) { return false, boom },
		OnFinish: func(*SinkFinish) error {
			finished = true
			return nil
		},
	}
	err = s.SearchSlice(literal(t, "a"), "test", []byte("a\n"), sink)
	assert.ErrorIs(t, err, boom)
	assert.False(t, finished)
}

func TestSearch_NumbersAndOffsetsDisabled(t *testing.T) {
	for _, multi := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.LineNumber = false
		cfg.ByteOffset = false
		cfg.MultiLine = multi
		rec := search(t, cfg, literal(t, "b"), "a\nb\n")
		assert.Equal(t, []string{`match 0@-1 "b\n"`}, rec.events)
	}
}

func TestSearch_CustomTerminator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LineTerminator = 0
	rec := search(t, cfg, literal(t, "b"), "a\x00b\x00c")
	assert.Equal(t, []string{`match 2@2 "b\x00"`}, rec.events)

	rec = search(t, cfg, regex(t, `^b$`), "a\x00b\x00c\x00bb\x00")
	assert.Equal(t, []string{`match 2@2 "b\x00"`}, rec.events)
	assert.Equal(t, [][]matcher.Span{{{Start: 0, End: 1}}}, rec.subs)

	cfg.InvertMatch = true
	rec = search(t, cfg, regex(t, `^b`), "a\x00b\x00bc\x00")
	assert.Equal(t, []string{`match 1@0 "a\x00"`}, rec.events)
}

func TestSearch_Encoding(t *testing.T) {
	t.Run("utf-8 bom is stripped", func(t *testing.T) {
		rec := search(t, DefaultConfig(), literal(t, "hi"), "\xEF\xBB\xBFhi\n")
		assert.Equal(t, []string{`match 1@0 "hi\n"`}, rec.events)
	})
	t.Run("utf-16le bom is decoded", func(t *testing.T) {
		rec := search(t, DefaultConfig(), literal(t, "hi"), "\xFF\xFEh\x00i\x00\n\x00")
		assert.Equal(t, []string{`match 1@0 "hi\n"`}, rec.events)
	})
	t.Run("none searches raw bytes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Encoding = EncodingNone
		rec := search(t, cfg, literal(t, "hi"), "\xEF\xBB\xBFhi\n")
		assert.Equal(t, []string{`match 1@0 "\ufeffhi\n"`}, rec.events)
	})
	t.Run("explicit label", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Encoding = "latin1"
		rec := search(t, cfg, literal(t, "café"), "caf\xE9\n")
		assert.Equal(t, []string{`match 1@0 "café\n"`}, rec.events)
	})
	t.Run("multiline slice with bom", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MultiLine = true
		s, err := New(cfg)
		require.NoError(t, err)
		rec := &recorder{}
		require.NoError(t, s.SearchSlice(literal(t, "hi"), "test", []byte("\xEF\xBB\xBFhi\n"), rec))
		assert.Equal(t, []string{`match 1@0 "hi\n"`}, rec.events)
	})
}

func TestSearch_ReusesSearcher(t *testing.T) {
	s, err := New(withContext(1, 1))
	require.NoError(t, err)

	first := &recorder{}
	require.NoError(t, s.SearchReader(literal(t, "x"), "a", strings.NewReader("1\nx\n2\n"), first))
	second := &recorder{}
	require.NoError(t, s.SearchReader(literal(t, "x"), "b", strings.NewReader("x\n"), second))

	assert.Equal(t, []string{`match 1@0 "x\n"`}, second.events)
	assert.Equal(t, int64(2), second.finish.ByteCount)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative before", func(c *Config) { c.BeforeContext = -1 }},
		{"negative after", func(c *Config) { c.AfterContext = -1 }},
		{"negative max line", func(c *Config) { c.MaxLineLength = -1 }},
		{"negative heap limit", func(c *Config) { c.HeapLimit = -1 }},
		{"convert terminator", func(c *Config) { c.Binary = ConvertBinary('\n') }},
		{"unknown encoding", func(c *Config) { c.Encoding = "klingon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}

	cfg := DefaultConfig()
	cfg.Encoding = "utf-16le"
	assert.NoError(t, cfg.Validate())
}

func BenchmarkSearch_Lines(b *testing.B) {
	input := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 10000)
	s, err := New(withContext(2, 2))
	require.NoError(b, err)
	m := matcher.NewLiteralMatcher("lazy", false)
	b.SetBytes(int64(len(input)))
	for i := 0; i < b.N; i++ {
		_ = s.SearchSlice(m, "bench", []byte(input), NopSink{})
	}
}
