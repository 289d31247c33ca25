package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/NikitaCOEUR/clangx/internal/completion"
	"github.com/NikitaCOEUR/clangx/internal/derrors"
	"github.com/NikitaCOEUR/clangx/internal/includes"
	"github.com/NikitaCOEUR/clangx/internal/session"
	"github.com/NikitaCOEUR/clangx/internal/watch"
)

// maxRequestSize bounds one request line; complete requests carry the buffer
const maxRequestSize = 64 * 1024 * 1024

// Serve methods
const (
	MethodInfo     = "info"
	MethodPrepare  = "prepare"
	MethodComplete = "complete"
	MethodShutdown = "shutdown"
)

// ServeRequest is one line read from the host
type ServeRequest struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// ServeResponse is one line written back. Exactly one of Result and Error is set.
type ServeResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  *ServeError `json:"error,omitempty"`
}

// ServeError carries a derrors code
type ServeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequestParams is the editor state sent with prepare and complete
type RequestParams struct {
	Cwd      string `json:"cwd"`
	File     string `json:"file"`
	Filetype string `json:"filetype"`
	// Line is the 1-based cursor line
	Line int `json:"line"`
	// Input is the cursor line up to the cursor; when absent it is derived
	// from Lines and Column. An empty string is a cursor at column one.
	Input  *string `json:"input,omitempty"`
	Column int     `json:"column"`
	// CompletePos overrides the start of the completed word (characters)
	CompletePos *int     `json:"complete_pos,omitempty"`
	Lines       []string `json:"lines"`
	Text        string   `json:"text"`
}

// SourceInfo describes the completion source to the host
type SourceInfo struct {
	Name         string   `json:"name"`
	Mark         string   `json:"mark"`
	Rank         int      `json:"rank"`
	Filetypes    []string `json:"filetypes"`
	InputPattern string   `json:"input_pattern"`
	Available    bool     `json:"available"`
	Version      string   `json:"version"`
}

// SessionResult is the answer to prepare
type SessionResult struct {
	Cwd         string   `json:"cwd"`
	RunDir      string   `json:"run_dir"`
	OptionsFile string   `json:"options_file,omitempty"`
	Args        []string `json:"args"`
	Problems    []string `json:"problems,omitempty"`
}

// CompleteResult is the answer to complete
type CompleteResult struct {
	CompletePos int `json:"complete_pos"`
	// Trigger is set when the input ends after ".", "->" or "::" and the host
	// should open the menu without a keyword prefix
	Trigger    bool                   `json:"trigger"`
	Candidates []completion.Candidate `json:"candidates"`
}

// ServeParams contains parameters for the Serve command
type ServeParams struct {
	Params
	Stdin io.Reader
	// Watch enables options file watching
	Watch bool
}

// Server answers JSON-lines requests sequentially
type Server struct {
	comps   *components
	version string

	// mu guards comps against the watcher goroutine while prepare rewires it
	mu       sync.RWMutex
	watcher  *watch.Watcher
	watchCtx context.Context
}

// Serve runs the request loop until stdin closes, a shutdown request
// arrives or ctx is done
func Serve(ctx context.Context, params ServeParams, version string) error {
	comps, err := initializeComponents(params.Params)
	if err != nil {
		return err
	}

	srv := &Server{comps: comps, version: version}

	if params.Watch {
		if err := srv.enableWatch(ctx); err != nil {
			comps.log.Warn().Err(err).Msg("File watching disabled")
		}
		defer srv.stopWatch()
	}

	in := params.Stdin
	if in == nil {
		in = os.Stdin
	}
	return srv.Run(ctx, in, params.stdout())
}

// Run processes requests from r and writes responses to w
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}

			resp, stop := s.handle(ctx, line)
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
			if stop {
				return nil
			}
		}
	}
}

// enableWatch invalidates the cached session whenever an options file or an
// include index in a watched directory changes
func (s *Server) enableWatch(ctx context.Context) error {
	cfg := s.comps.config
	names := append([]string{}, cfg.ClangFilePath...)
	index := cfg.IncludeIndex
	if index == "" {
		index = includes.DefaultIndexName
	}
	names = append(names, index)

	w, err := watch.New(names, 0, func(path string) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		s.comps.log.Info().Str("file", path).Msg("Project file changed, session invalidated")
		s.comps.store.Invalidate()
	}, s.comps.log)
	if err != nil {
		return err
	}
	w.Start(ctx)
	s.watcher, s.watchCtx = w, ctx
	return nil
}

func (s *Server) stopWatch() {
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
}

// reloadConfig picks up edits to the settings file. The watcher is recreated
// since the watched names come from the settings.
func (s *Server) reloadConfig() error {
	s.mu.Lock()
	changed, err := s.comps.reload()
	s.mu.Unlock()
	if err != nil || !changed || s.watcher == nil {
		return err
	}

	ctx := s.watchCtx
	s.stopWatch()
	if err := s.enableWatch(ctx); err != nil {
		s.comps.log.Warn().Err(err).Msg("File watching disabled")
	}
	return nil
}

func (s *Server) handle(ctx context.Context, line []byte) (resp ServeResponse, stop bool) {
	var req ServeRequest
	if err := json.Unmarshal(line, &req); err != nil {
		resp.ID = uuid.NewString()
		resp.Error = &ServeError{Code: "PARSE_ERROR", Message: err.Error()}
		return resp, false
	}

	resp.ID = req.ID
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}

	log := s.comps.log
	log.Debug().Str("id", resp.ID).Str("method", req.Method).Msg("Request received")

	var params RequestParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &ServeError{Code: "PARSE_ERROR", Message: err.Error()}
			return resp, false
		}
	}

	var result interface{}
	var err error

	switch req.Method {
	case MethodInfo:
		result = s.info()
	case MethodPrepare:
		result, err = s.prepare(ctx, params)
	case MethodComplete:
		result, err = s.complete(ctx, params)
	case MethodShutdown:
		result, stop = struct{}{}, true
	default:
		resp.Error = &ServeError{Code: "UNKNOWN_METHOD", Message: fmt.Sprintf("unknown method %q", req.Method)}
		return resp, false
	}

	if err != nil {
		log.Debug().Str("id", resp.ID).Err(err).Msg("Request failed")
		resp.Error = &ServeError{Code: derrors.Code(err), Message: err.Error()}
		return resp, false
	}

	resp.Result = result
	return resp, stop
}

func (s *Server) info() SourceInfo {
	return SourceInfo{
		Name:         completion.SourceName,
		Mark:         completion.SourceMark,
		Rank:         completion.SourceRank,
		Filetypes:    completion.Filetypes,
		InputPattern: completion.InputPattern,
		Available:    s.comps.gatherer.Available(),
		Version:      s.version,
	}
}

func (s *Server) sessionParams(p RequestParams) (session.Params, error) {
	if p.Cwd == "" {
		return session.Params{}, derrors.NewValidationError("cwd", "cwd is required", nil)
	}
	cwd, err := filepath.Abs(p.Cwd)
	if err != nil {
		return session.Params{}, err
	}
	filetype, err := resolveFiletype(p.Filetype, p.File)
	if err != nil {
		return session.Params{}, err
	}
	return session.Params{
		Cwd:      cwd,
		BufPath:  resolveBuffer(p.File, cwd),
		Filetype: filetype,
	}, nil
}

// prepare rebuilds the session; hosts send it on buffer enter and write
func (s *Server) prepare(ctx context.Context, p RequestParams) (*SessionResult, error) {
	sp, err := s.sessionParams(p)
	if err != nil {
		return nil, err
	}

	reloadErr := s.reloadConfig()
	if reloadErr != nil {
		s.comps.log.Warn().Err(reloadErr).Msg("Keeping previous configuration")
	}

	sess, prepareErr := s.comps.store.Refresh(ctx, sp)
	s.watchSession(sess, sp.BufPath)

	res := &SessionResult{
		Cwd:         sess.Cwd,
		RunDir:      sess.RunDir,
		OptionsFile: sess.OptionsFile,
		Args:        sess.Args,
	}
	if res.Args == nil {
		res.Args = []string{}
	}
	for _, e := range []error{reloadErr, prepareErr} {
		if e != nil {
			res.Problems = append(res.Problems, e.Error())
		}
	}
	return res, nil
}

func (s *Server) complete(ctx context.Context, p RequestParams) (*CompleteResult, error) {
	sp, err := s.sessionParams(p)
	if err != nil {
		return nil, err
	}

	lines := p.Lines
	if lines == nil {
		lines = splitBuffer(p.Text)
	}
	if p.Line < 1 || p.Line > len(lines) {
		return nil, derrors.NewValidationError("line", fmt.Sprintf("line %d is outside the buffer (%d lines)", p.Line, len(lines)), nil)
	}

	var input string
	if p.Input != nil {
		input = *p.Input
	} else {
		input = cursorInput(lines[p.Line-1], p.Column)
	}

	pos := completion.LocatePosition(input)
	if p.CompletePos != nil {
		pos = *p.CompletePos
	}

	res := &CompleteResult{
		CompletePos: pos,
		Trigger:     completion.ShouldTrigger(input),
		Candidates:  []completion.Candidate{},
	}
	if pos < 0 {
		return res, nil
	}

	sess, _ := s.comps.store.ForCwd(ctx, sp)
	s.watchSession(sess, sp.BufPath)

	candidates := s.comps.gatherer.Gather(ctx, completion.Request{
		BufPath:     sp.BufPath,
		Filetype:    sp.Filetype,
		Cwd:         sp.Cwd,
		Line:        p.Line,
		Input:       input,
		CompletePos: pos,
		Lines:       lines,
	}, sess)

	if candidates != nil {
		res.Candidates = candidates
	}
	return res, nil
}

// watchSession starts watching the directories whose project files decide
// sess. The options file search starts at the buffer's directory.
func (s *Server) watchSession(sess *session.Session, bufPath string) {
	if s.watcher == nil || sess == nil {
		return
	}
	dirs := []string{sess.Cwd, sess.RunDir}
	if bufPath != "" {
		dirs = append(dirs, filepath.Dir(bufPath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := s.watcher.Add(dir); err != nil {
			s.comps.log.Debug().Err(err).Str("dir", dir).Msg("Cannot watch directory")
		}
	}
}
