package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tasks understood by the local inference runtime.
const (
	TaskQuestionGeneration = "text2text-generation"
	TaskQuestionAnswering  = "question-answering"
)

var ErrEmptyOutput = errors.New("local inference returned no usable output")

// Config describes how to start the local inference runtime.
type Config struct {
	Command string
	Args    []string
	QGModel string
	QAModel string
	Device  string // e.g. "cpu", "cuda", "cuda:0"
}

// CommandRunner executes name with args, feeding stdin and returning stdout.
type CommandRunner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// Runner executes question generation and question answering in a local
// inference runtime started as a child process. It makes no network calls and
// imposes no timeout of its own.
type Runner struct {
	cfg           Config
	lookPath      func(string) (string, error)
	commandRunner CommandRunner
}

func NewRunner(cfg Config) *Runner {
	cfg.Command = strings.TrimSpace(cfg.Command)
	cfg.QGModel = strings.TrimSpace(cfg.QGModel)
	cfg.QAModel = strings.TrimSpace(cfg.QAModel)
	cfg.Device = strings.TrimSpace(cfg.Device)
	return &Runner{cfg: cfg, lookPath: exec.LookPath}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Runner) WithCommandRunner(runner CommandRunner) *Runner {
	r.commandRunner = runner
	return r
}

// Probe checks once that the runtime binary resolves and both models are set.
func (r *Runner) Probe() error {
	if r.cfg.Command == "" {
		return errors.New("command not configured")
	}
	if r.cfg.QGModel == "" || r.cfg.QAModel == "" {
		return errors.New("question generation and answering models must both be set")
	}
	if _, err := r.lookPath(r.cfg.Command); err != nil {
		return fmt.Errorf("binary %q not found", r.cfg.Command)
	}
	return nil
}

type request struct {
	Task     string `json:"task"`
	Model    string `json:"model"`
	Device   string `json:"device,omitempty"`
	Inputs   string `json:"inputs,omitempty"`
	Question string `json:"question,omitempty"`
	Context  string `json:"context,omitempty"`
}

type response struct {
	GeneratedText string `json:"generated_text"`
	Answer        string `json:"answer"`
	Error         string `json:"error"`
}

// GenerateQuestions runs the question generation model over the notes.
func (r *Runner) GenerateQuestions(ctx context.Context, notes string) (string, error) {
	resp, err := r.invoke(ctx, request{
		Task:   TaskQuestionGeneration,
		Model:  r.cfg.QGModel,
		Device: r.cfg.Device,
		Inputs: notes,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.GeneratedText)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// Answer runs the question answering model with the notes as context.
func (r *Runner) Answer(ctx context.Context, question, passage string) (string, error) {
	resp, err := r.invoke(ctx, request{
		Task:     TaskQuestionAnswering,
		Model:    r.cfg.QAModel,
		Device:   r.cfg.Device,
		Question: question,
		Context:  passage,
	})
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(resp.Answer)
	if answer == "" {
		return "", ErrEmptyOutput
	}
	return answer, nil
}

func (r *Runner) invoke(ctx context.Context, req request) (response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return response{}, fmt.Errorf("encode %s request: %w", req.Task, err)
	}

	out, err := r.run(ctx, payload)
	if err != nil {
		return response{}, fmt.Errorf("%s: %w", req.Task, err)
	}

	var resp response
	if err := json.Unmarshal(bytes.TrimSpace(out), &resp); err != nil {
		return response{}, fmt.Errorf("decode %s response: %w", req.Task, err)
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return response{}, fmt.Errorf("%s: runtime error: %s", req.Task, msg)
	}
	return resp, nil
}

// run executes the runtime, using the custom runner if set.
func (r *Runner) run(ctx context.Context, stdin []byte) ([]byte, error) {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, stdin, r.cfg.Command, r.cfg.Args...)
	}
	cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.Args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", r.cfg.Command, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
