package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/bonicascribe/backend/internal/eventbus"
	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/pkg/reconcile"
)

func dictationForm() *model.Form {
	return &model.Form{
		ID: 5, UserID: 1, Name: "Paciente X", TemplateKey: model.TemplateKeyDefault,
		GeneralAIPrompt: "Eres un asistente.",
		Sections: []model.Section{
			{SectionKey: "hospitalInfo", Title: "Hospital", Content: "Nombre del Hospital: ", AIPrompt: "Extraer encabezado."},
			{SectionKey: "padecimientoActual", Title: "Padecimiento", Content: ""},
		},
	}
}

func newTranscriptionFixture(generator *mockGenerator) (TranscriptionService, *mockFormRepo, *eventbus.FormEventBus) {
	formRepo := &mockFormRepo{
		GetFunc: func(userID, id uint) (*model.Form, error) { return dictationForm(), nil },
	}
	bus := eventbus.NewFormEventBus()
	forms := NewFormService(formRepo, &mockUserRepo{}, bus, 4)
	return NewTranscriptionService(forms, formRepo, generator, bus), formRepo, bus
}

func TestTranscribeAppliesStructuredResponse(t *testing.T) {
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: "```json\n" + `{
				"originalTranscription": "el paciente llega al hospital general",
				"hospitalInfo": {"nombreHospital": "General"},
				"desconocido": "ignorado"
			}` + "\n```"}, nil
		},
	}
	svc, formRepo, bus := newTranscriptionFixture(generator)

	saved := false
	formRepo.SaveFunc = func(form *model.Form) error { saved = true; return nil }
	var events []eventbus.FormEvent
	bus.Subscribe(eventbus.FormEventTranscriptionApplied, func(ctx context.Context, e eventbus.FormEvent) error {
		events = append(events, e)
		return nil
	})

	result, err := svc.Transcribe(context.Background(), 1, 5, TranscribeRequest{Audio: []byte{1, 2}, MIMEType: "audio/webm"})
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	if result.Form.Sections[0].Content != "Nombre Hospital: General" {
		t.Fatalf("expected formatted content applied, got %q", result.Form.Sections[0].Content)
	}
	if result.Transcript != "el paciente llega al hospital general" {
		t.Fatalf("expected transcript surfaced, got %q", result.Transcript)
	}
	if len(result.UpdatedKeys) != 1 || result.UpdatedKeys[0] != "hospitalInfo" {
		t.Fatalf("expected hospitalInfo updated, got %v", result.UpdatedKeys)
	}
	if !saved {
		t.Fatalf("changed form must be persisted")
	}
	if len(events) != 1 || events[0].FormID != 5 {
		t.Fatalf("expected transcription event, got %+v", events)
	}
}

func TestTranscribeMalformedResponseLeavesFormUntouched(t *testing.T) {
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: "esto no es json"}, nil
		},
	}
	svc, formRepo, _ := newTranscriptionFixture(generator)
	formRepo.SaveFunc = func(form *model.Form) error {
		t.Fatalf("unchanged form must not be saved")
		return nil
	}

	result, err := svc.Transcribe(context.Background(), 1, 5, TranscribeRequest{Audio: []byte{1}})
	if err != nil {
		t.Fatalf("Transcribe must fail soft on malformed response, got %v", err)
	}
	if len(result.UpdatedKeys) != 0 {
		t.Fatalf("expected no sections updated, got %v", result.UpdatedKeys)
	}
	if result.Form.Sections[0].Content != "Nombre del Hospital: " {
		t.Fatalf("form content must be unchanged, got %q", result.Form.Sections[0].Content)
	}
}

func TestTranscribePromptListsSections(t *testing.T) {
	var prompt string
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			if len(input) != 2 || input[0].Role != schema.System {
				t.Fatalf("expected system+user messages, got %d", len(input))
			}
			prompt = input[0].Content
			if len(input[1].MultiContent) != 1 || input[1].MultiContent[0].Type != schema.ChatMessagePartTypeAudioURL {
				t.Fatalf("expected one audio part in user message")
			}
			if !strings.HasPrefix(input[1].MultiContent[0].AudioURL.URL, "data:audio/mp4;base64,") {
				t.Fatalf("expected audio data URI, got %q", input[1].MultiContent[0].AudioURL.URL)
			}
			return &schema.Message{Role: schema.Assistant, Content: "{}"}, nil
		},
	}
	svc, _, _ := newTranscriptionFixture(generator)

	if _, err := svc.Transcribe(context.Background(), 1, 5, TranscribeRequest{Audio: []byte("abc"), MIMEType: "audio/mp4"}); err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	for _, want := range []string{reconcile.ReservedTranscriptKey, "hospitalInfo", "padecimientoActual", "Extraer encabezado."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestTranscribeGeneratorFailure(t *testing.T) {
	wantErr := errors.New("model down")
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return nil, wantErr
		},
	}
	svc, _, _ := newTranscriptionFixture(generator)

	if _, err := svc.Transcribe(context.Background(), 1, 5, TranscribeRequest{Audio: []byte{1}}); !errors.Is(err, wantErr) {
		t.Fatalf("expected generator error surfaced, got %v", err)
	}
}

func TestSummarizeSectionWritesSummary(t *testing.T) {
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: `{"summary": "resumen breve"}`}, nil
		},
	}
	svc, _, bus := newTranscriptionFixture(generator)

	var events []eventbus.FormEvent
	bus.Subscribe(eventbus.FormEventSectionSummarized, func(ctx context.Context, e eventbus.FormEvent) error {
		events = append(events, e)
		return nil
	})

	form, err := svc.SummarizeSection(context.Background(), 1, 5, "hospitalInfo")
	if err != nil {
		t.Fatalf("SummarizeSection error: %v", err)
	}
	if form.Sections[0].Summary != "resumen breve" {
		t.Fatalf("expected summary written, got %q", form.Sections[0].Summary)
	}
	if form.Sections[0].Content != "Nombre del Hospital: " {
		t.Fatalf("summary must not touch content, got %q", form.Sections[0].Content)
	}
	if len(events) != 1 {
		t.Fatalf("expected summarized event, got %+v", events)
	}
}

func TestSuggestDiagnosisPrefixesSummary(t *testing.T) {
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: `{"diagnosis": "apendicitis probable"}`}, nil
		},
	}
	svc, _, _ := newTranscriptionFixture(generator)

	form, err := svc.SuggestDiagnosis(context.Background(), 1, 5, "padecimientoActual")
	if err != nil {
		t.Fatalf("SuggestDiagnosis error: %v", err)
	}
	want := DiagnosisPrefix + "\napendicitis probable"
	if form.Sections[1].Summary != want {
		t.Fatalf("expected prefixed diagnosis, got %q", form.Sections[1].Summary)
	}
}

func TestSummarizeSectionMissingField(t *testing.T) {
	generator := &mockGenerator{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
			return &schema.Message{Role: schema.Assistant, Content: `{"otro": "x"}`}, nil
		},
	}
	svc, _, _ := newTranscriptionFixture(generator)

	if _, err := svc.SummarizeSection(context.Background(), 1, 5, "hospitalInfo"); err == nil {
		t.Fatalf("expected error when summary field missing")
	}
}

func TestSummarizeSectionUnknownSection(t *testing.T) {
	svc, _, _ := newTranscriptionFixture(&mockGenerator{})
	if _, err := svc.SummarizeSection(context.Background(), 1, 5, "nope"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}
