// Package session ties one dataset, persona and chat history together behind
// the operations the HTTP handlers expose. A Session is created by main and
// passed down; nothing here is process-global.
package session

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrwolf/companion-server/internal/chat"
	"github.com/mrwolf/companion-server/internal/dataset"
	"github.com/mrwolf/companion-server/internal/db"
	"github.com/mrwolf/companion-server/internal/ocr"
	"github.com/mrwolf/companion-server/internal/persona"
)

// Failure strings shown in place of the dataset view
const (
	MsgLoadFailed = "Failed to load file"
	MsgSaveFailed = "Failed to save file"
)

// Recorder stores activity rows; *db.DB implements it
type Recorder interface {
	LogActivity(sessionID, kind, detail string, lineCount int) error
}

// Options configures a Session
type Options struct {
	DatasetPath string
	OCR         ocr.Engine
	Picker      *chat.Picker
	Recorder    Recorder
	Logger      *zap.Logger
}

// Session is one companion: its dataset, persona and conversation
type Session struct {
	id      string
	dataset *dataset.Store
	persona *persona.Record
	picker  *chat.Picker
	ocr     ocr.Engine
	rec     Recorder
	logger  *zap.Logger

	mu      sync.Mutex
	history chat.Log
}

// New creates a session with an empty dataset and default persona
func New(opts Options) *Session {
	if opts.OCR == nil {
		opts.OCR = ocr.NewStatic("")
	}
	if opts.Picker == nil {
		opts.Picker = chat.NewPicker(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := "sess_" + uuid.NewString()
	return &Session{
		id:      id,
		dataset: dataset.NewStore(opts.DatasetPath),
		persona: persona.NewRecord(),
		picker:  opts.Picker,
		ocr:     opts.OCR,
		rec:     opts.Recorder,
		logger:  opts.Logger.With(zap.String("session", id)),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Dataset exposes the underlying store
func (s *Session) Dataset() *dataset.Store {
	return s.dataset
}

// AddText appends the lines of raw text and returns the rendered dataset
func (s *Session) AddText(raw string) string {
	before := s.dataset.Len()
	rendered := s.dataset.AppendText(raw)
	s.record(db.KindAppendText, "", s.dataset.Len()-before)
	return rendered
}

// AddImage runs OCR over img and appends the extracted lines.
// OCR failures add nothing; the extracted text and rendered dataset are returned.
func (s *Session) AddImage(ctx context.Context, img image.Image) (string, string) {
	text, err := s.ocr.Extract(ctx, img)
	if err != nil {
		s.logger.Warn("ocr failed", zap.Error(err))
		return "", s.dataset.Render()
	}

	before := s.dataset.Len()
	rendered := s.dataset.AppendLines(dataset.Lines(text))
	s.record(db.KindAppendImage, "", s.dataset.Len()-before)
	return text, rendered
}

// SaveDataset writes the dataset to its backing file
func (s *Session) SaveDataset() string {
	rendered, err := s.dataset.Save("")
	if err != nil {
		s.logger.Error("saving dataset", zap.Error(err))
		return MsgSaveFailed
	}
	s.record(db.KindSave, s.dataset.Path(), s.dataset.Len())
	return rendered
}

// LoadDataset appends the lines of the file at path
func (s *Session) LoadDataset(path string) string {
	before := s.dataset.Len()
	rendered, err := s.dataset.Load(path)
	return s.afterLoad(path, before, rendered, err)
}

// ImportDataset appends lines read from r, e.g. an uploaded file
func (s *Session) ImportDataset(name string, r io.Reader) string {
	before := s.dataset.Len()
	rendered, err := s.dataset.LoadFrom(r)
	return s.afterLoad(name, before, rendered, err)
}

func (s *Session) afterLoad(name string, before int, rendered string, err error) string {
	if err != nil {
		s.logger.Warn("loading dataset", zap.String("source", name), zap.Error(err))
		return MsgLoadFailed
	}
	s.record(db.KindLoad, name, s.dataset.Len()-before)
	return rendered
}

// ClearDataset empties the dataset and deletes its file. Deletion errors are logged, not returned.
func (s *Session) ClearDataset() string {
	rendered, err := s.dataset.Clear()
	if err != nil {
		s.logger.Warn("removing dataset file", zap.Error(err))
	}
	s.record(db.KindClear, s.dataset.Path(), 0)
	return rendered
}

// DatasetInfo summarises the dataset size
func (s *Session) DatasetInfo() string {
	return fmt.Sprintf("Dataset contains %d lines.", s.dataset.Len())
}

// Autosave saves the dataset when it changed since the last save
func (s *Session) Autosave() (bool, error) {
	if !s.dataset.Dirty() {
		return false, nil
	}
	if _, err := s.dataset.Save(""); err != nil {
		return false, err
	}
	s.record(db.KindSave, s.dataset.Path(), s.dataset.Len())
	return true, nil
}

// Persona returns the current persona
func (s *Session) Persona() persona.Persona {
	return s.persona.Snapshot()
}

// UpdatePersona overwrites the non-blank fields
func (s *Session) UpdatePersona(f persona.Fields) string {
	msg := s.persona.Update(f)
	s.record(db.KindPersonaUpdate, s.persona.Snapshot().Name, 0)
	return msg
}

// ResetPersona restores the default persona
func (s *Session) ResetPersona() string {
	msg := s.persona.Reset()
	s.record(db.KindPersonaReset, "", 0)
	return msg
}

// SetAvatar stores an encoded avatar image on the persona
func (s *Session) SetAvatar(png []byte) {
	s.persona.SetAvatar(png)
}

// Avatar returns the persona's encoded avatar image, if any
func (s *Session) Avatar() []byte {
	return s.persona.Avatar()
}

// Chat picks a reply to message, appends the turn and returns the whole history
func (s *Session) Chat(message string) chat.Log {
	reply := s.picker.Pick(s.dataset.Lines(), s.persona.Snapshot())

	s.mu.Lock()
	s.history = chat.Append(s.history, message, reply)
	history := s.history
	s.mu.Unlock()

	s.record(db.KindChat, "", len(history))
	return history
}

// History returns the conversation so far
func (s *Session) History() chat.Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(chat.Log, len(s.history))
	copy(out, s.history)
	return out
}

// ResetChat forgets the conversation
func (s *Session) ResetChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) record(kind, detail string, lineCount int) {
	if s.rec == nil {
		return
	}
	if err := s.rec.LogActivity(s.id, kind, detail, lineCount); err != nil {
		s.logger.Warn("recording activity", zap.String("kind", kind), zap.Error(err))
	}
}
