package ffp

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/cache"
	"github.com/gogpu/ffp/compiler"
	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/generator"
	"github.com/gogpu/ffp/settings"
	"github.com/gogpu/ffp/state"
)

type variantCache = cache.Bucketed[settings.PipelineSettings, *ShaderVariant]

// Session turns fixed-function pipeline settings into compiled programs
// and resolves their constants against the session's PipelineState.
//
// A Session owns its PipelineState, its vertex and fragment variant
// caches and its compiler service. It has no internal locking: concurrent
// use of one Session requires external mutual exclusion. Separate sessions
// share nothing.
type Session struct {
	state    *state.PipelineState
	compiler compiler.Service
	memo     *compiler.Memo
	vertex   *variantCache
	fragment *variantCache
	log      CompilationLog
	compiles int
	closed   bool
}

// NewSession creates a session configured by opts.
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.mirror == nil {
		o.mirror = device.NewMemory()
	}
	if o.compiler == nil {
		o.compiler = compiler.Default(o.bankSize)
	}

	s := &Session{
		state:    state.New(o.mirror),
		compiler: o.compiler,
		vertex:   cache.NewBucketed[settings.PipelineSettings, *ShaderVariant](o.capacity, o.checksum, o.equal),
		fragment: cache.NewBucketed[settings.PipelineSettings, *ShaderVariant](o.capacity, o.checksum, o.equal),
	}
	if o.memoEntries > 0 {
		s.memo = compiler.NewMemo(o.compiler, o.memoEntries)
		s.compiler = s.memo
	}
	Logger().Info("ffp: session created", "capacity", s.vertex.Capacity(), "memo", o.memoEntries)
	return s
}

// State returns the session's pipeline state. Writes to it reach the
// device mirror on the next program generation or resolution.
func (s *Session) State() *state.PipelineState { return s.state }

// Mirror returns the device state the session syncs into.
func (s *Session) Mirror() device.Mirror { return s.state.Mirror() }

// GeneratePrograms returns the vertex and fragment variants for ps and
// hands them, with constants resolved against the current state, to vp
// and fp. A nil sink skips resolution for its stage.
//
// Variants are looked up in the session caches first. On a miss the
// programs are generated, compiled and cached; on a hit only the
// constants are resolved again.
func (s *Session) GeneratePrograms(ps *settings.PipelineSettings, vp, fp ProgramSink) (*ShaderVariant, *ShaderVariant, error) {
	if s.closed {
		return nil, nil, ErrSessionClosed
	}
	if err := settings.Validate(ps); err != nil {
		return nil, nil, err
	}
	v, err := s.variant(gputypes.ShaderStageVertex, ps)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.variant(gputypes.ShaderStageFragment, ps)
	if err != nil {
		return nil, nil, err
	}

	s.state.Sync()
	if err := s.resolve(v, vp); err != nil {
		return nil, nil, err
	}
	if err := s.resolve(f, fp); err != nil {
		return nil, nil, err
	}
	return v, f, nil
}

// GenerateVertexProgram is GeneratePrograms for the vertex stage only.
func (s *Session) GenerateVertexProgram(ps *settings.PipelineSettings, sink ProgramSink) (*ShaderVariant, error) {
	return s.generate(gputypes.ShaderStageVertex, ps, sink)
}

// GenerateFragmentProgram is GeneratePrograms for the fragment stage only.
func (s *Session) GenerateFragmentProgram(ps *settings.PipelineSettings, sink ProgramSink) (*ShaderVariant, error) {
	return s.generate(gputypes.ShaderStageFragment, ps, sink)
}

func (s *Session) generate(stage gputypes.ShaderStage, ps *settings.PipelineSettings, sink ProgramSink) (*ShaderVariant, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if err := settings.Validate(ps); err != nil {
		return nil, err
	}
	v, err := s.variant(stage, ps)
	if err != nil {
		return nil, err
	}
	s.state.Sync()
	if err := s.resolve(v, sink); err != nil {
		return nil, err
	}
	return v, nil
}

// variant returns the cached variant for ps, building it on a miss.
func (s *Session) variant(stage gputypes.ShaderStage, ps *settings.PipelineSettings) (*ShaderVariant, error) {
	c, gen := s.vertex, generator.Vertex
	if stage == gputypes.ShaderStageFragment {
		c, gen = s.fragment, generator.Fragment
	}
	if v, ok := c.Lookup(ps); ok {
		return v, nil
	}
	Logger().Debug("ffp: variant cache miss", "stage", stage.String(), "len", c.Len())

	p, err := gen(ps)
	if err != nil {
		return nil, err
	}
	res, err := s.CompileProgram(p.Source)
	if err != nil {
		return nil, fmt.Errorf("ffp: %s program: %w", stage, err)
	}
	v := newVariant(stage, p.Source, res, binding.Merge(res.Bank, p.Bindings))

	if c.Insert(ps, v) {
		Logger().Warn("ffp: variant cache cleared", "stage", stage.String(), "capacity", c.Capacity())
	}
	return v, nil
}

func (s *Session) resolve(v *ShaderVariant, sink ProgramSink) error {
	if sink == nil {
		return nil
	}
	if err := v.apply(s.state, sink); err != nil {
		return fmt.Errorf("ffp: resolve %s program: %w", v.Stage, err)
	}
	return nil
}

// CompileProgram compiles source with the session's compiler service and
// records it in the compilation log.
func (s *Session) CompileProgram(source string) (*compiler.Result, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	res, err := s.compiler.Compile(source)
	if err != nil {
		return nil, err
	}
	s.compiles++

	entry := StageLog{
		Source:       source,
		Model:        res.Model,
		Instructions: res.Instructions,
		Parameters:   res.Parameters,
		Message:      res.Log,
	}
	if res.Model.Stage() == gputypes.ShaderStageFragment {
		s.log.Fragment = entry
	} else {
		s.log.Vertex = entry
	}
	Logger().Debug("ffp: program compiled",
		"model", res.Model.String(),
		"instructions", res.Instructions,
		"parameters", res.Parameters)
	return res, nil
}

// ResolveProgram builds a variant from a program compiled with
// CompileProgram and hands it to sink with its constants resolved.
// Program parameters are bound by caller's Local and Environment
// descriptors; parameters nobody binds resolve to zero. Generator
// bindings never take part, so every local index is available.
//
// The returned variant belongs to the caller and can be resolved again
// with Apply.
func (s *Session) ResolveProgram(compiled *compiler.Result, caller []binding.Descriptor, sink ProgramSink) (*ShaderVariant, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	v := newVariant(compiled.Model.Stage(), "", compiled, binding.Merge(compiled.Bank, caller))
	if err := s.Apply(v, sink); err != nil {
		return nil, err
	}
	return v, nil
}

// Apply pushes pending state changes to the device mirror and hands v,
// with freshly resolved constants, to sink.
func (s *Session) Apply(v *ShaderVariant, sink ProgramSink) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.state.Sync()
	return s.resolve(v, sink)
}

// CompilationLog describes the most recent compilation of each stage.
type CompilationLog struct {
	Vertex   StageLog
	Fragment StageLog
}

// StageLog describes one compiled program.
type StageLog struct {
	Source       string
	Model        compiler.Model
	Instructions int
	Parameters   int
	Message      string
}

// CompilationLog returns the most recent compilation of each stage.
func (s *Session) CompilationLog() CompilationLog { return s.log }

// SessionStats holds session statistics.
type SessionStats struct {
	Vertex   cache.Stats
	Fragment cache.Stats

	// Compiles counts successful CompileProgram calls, memo hits included.
	Compiles int

	// MemoHits and MemoMisses count compile memo lookups. Both are zero
	// without WithCompileMemo.
	MemoHits   uint64
	MemoMisses uint64
}

// Stats returns current session statistics.
func (s *Session) Stats() SessionStats {
	st := SessionStats{
		Vertex:   s.vertex.Stats(),
		Fragment: s.fragment.Stats(),
		Compiles: s.compiles,
	}
	if s.memo != nil {
		st.MemoHits, st.MemoMisses = s.memo.Counters()
	}
	return st
}

// Close drops every cached variant. The session cannot be used afterwards;
// variants already returned stay valid.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	st := s.Stats()
	s.vertex.Clear()
	s.fragment.Clear()
	s.closed = true
	Logger().Info("ffp: session closed",
		"vertexHits", st.Vertex.Hits, "vertexMisses", st.Vertex.Misses,
		"fragmentHits", st.Fragment.Hits, "fragmentMisses", st.Fragment.Misses,
		"compiles", st.Compiles)
	return nil
}
