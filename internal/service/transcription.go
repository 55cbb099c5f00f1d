package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/internal/eventbus"
	"github.com/bonicascribe/backend/internal/model"
	"github.com/bonicascribe/backend/internal/pkg/reconcile"
	"github.com/bonicascribe/backend/internal/service/dictation"
)

// DiagnosisPrefix AI 诊断建议写入摘要时的标识前缀
const DiagnosisPrefix = "--- Posible Diagnóstico (IA) ---"

// TranscribeRequest 口述转写请求
type TranscribeRequest struct {
	Audio    []byte // 原始音频数据
	MIMEType string // 如 audio/webm, audio/mp4
}

// TranscribeResult 转写结果
type TranscribeResult struct {
	Form        *model.Form `json:"form"`
	Transcript  string      `json:"transcript"`   // 原始转写全文
	UpdatedKeys []string    `json:"updated_keys"` // 内容被更新的分区键
}

// TranscriptionService 口述转写服务接口
// 把音频交给多模态模型，按表单分区结构回填内容；
// 摘要与诊断建议只写入分区的 Summary，不碰 Content
type TranscriptionService interface {
	Transcribe(ctx context.Context, userID, formID uint, req TranscribeRequest) (*TranscribeResult, error)
	SummarizeSection(ctx context.Context, userID, formID uint, sectionKey string) (*model.Form, error)
	SuggestDiagnosis(ctx context.Context, userID, formID uint, sectionKey string) (*model.Form, error)
}

type transcriptionService struct {
	forms     FormService
	formRepo  formSaver
	generator dictation.Generator
	bus       *eventbus.FormEventBus
}

// formSaver 本服务只需要保存能力
type formSaver interface {
	Save(form *model.Form) error
}

// NewTranscriptionService 创建服务实例
func NewTranscriptionService(forms FormService, formRepo formSaver,
	generator dictation.Generator, bus *eventbus.FormEventBus) TranscriptionService {
	return &transcriptionService{forms: forms, formRepo: formRepo, generator: generator, bus: bus}
}

// Transcribe 转写音频并回填表单分区
// 模型响应解析失败时表单保持原样，只返回未变更的结果，不报错
func (s *transcriptionService) Transcribe(ctx context.Context, userID, formID uint, req TranscribeRequest) (*TranscribeResult, error) {
	form, err := s.forms.Get(ctx, userID, formID)
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(transcribePrompt(form)),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{
					Type: schema.ChatMessagePartTypeAudioURL,
					AudioURL: &schema.ChatMessageAudioURL{
						URL:      audioDataURI(req.Audio, req.MIMEType),
						MIMEType: req.MIMEType,
					},
				},
			},
		},
	}

	resp, err := s.generator.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transcription: %w", err)
	}

	response := reconcile.Parse(resp.Content)
	result := reconcile.Apply(form, response)

	if result.Changed {
		if err := s.formRepo.Save(form); err != nil {
			return nil, fmt.Errorf("failed to save transcribed form: %w", err)
		}
		s.publish(ctx, eventbus.FormEvent{
			Type: eventbus.FormEventTranscriptionApplied, UserID: userID, FormID: form.ID, SectionKeys: result.UpdatedKeys,
		})
	}

	return &TranscribeResult{Form: form, Transcript: result.Transcript, UpdatedKeys: result.UpdatedKeys}, nil
}

// SummarizeSection 为分区内容生成摘要写入 Summary
func (s *transcriptionService) SummarizeSection(ctx context.Context, userID, formID uint, sectionKey string) (*model.Form, error) {
	return s.annotateSection(ctx, userID, formID, sectionKey, "summary", summarizePrompt, func(text string) string {
		return text
	})
}

// SuggestDiagnosis 基于分区内容生成诊断建议写入 Summary
// 建议带固定前缀，前端据此区分摘要与诊断
func (s *transcriptionService) SuggestDiagnosis(ctx context.Context, userID, formID uint, sectionKey string) (*model.Form, error) {
	return s.annotateSection(ctx, userID, formID, sectionKey, "diagnosis", diagnosisPrompt, func(text string) string {
		return DiagnosisPrefix + "\n" + text
	})
}

// annotateSection 摘要与诊断的公共流程：取分区内容、要求模型返回单字段 JSON、写入 Summary
func (s *transcriptionService) annotateSection(ctx context.Context, userID, formID uint, sectionKey, field string,
	prompt func(section *model.Section) string, decorate func(string) string) (*model.Form, error) {

	form, err := s.forms.Get(ctx, userID, formID)
	if err != nil {
		return nil, err
	}
	idx := sectionIndex(form, sectionKey)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	section := &form.Sections[idx]

	resp, err := s.generator.Generate(ctx, []*schema.Message{
		schema.SystemMessage(prompt(section)),
		schema.UserMessage(section.Content),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", field, err)
	}

	response := reconcile.Parse(resp.Content)
	value, ok := response.Lookup(field)
	if !ok {
		if msg, hasErr := response.Lookup(reconcile.ErrorField); hasErr {
			klog.V(6).Infof("分区标注响应解析失败: %s", reconcile.FormatValue(msg))
		}
		return nil, fmt.Errorf("model response missing %q field", field)
	}

	text := strings.TrimSpace(reconcile.FormatValue(value))
	if text == "" {
		return nil, fmt.Errorf("model returned empty %s", field)
	}
	section.Summary = decorate(text)

	if err := s.formRepo.Save(form); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", field, err)
	}
	s.publish(ctx, eventbus.FormEvent{
		Type: eventbus.FormEventSectionSummarized, UserID: userID, FormID: form.ID, SectionKeys: []string{sectionKey},
	})
	return form, nil
}

func (s *transcriptionService) publish(ctx context.Context, event eventbus.FormEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("发布转写事件失败: %v", err)
	}
}

// transcribePrompt 按表单当前分区结构动态拼装系统提示词
// 要求模型返回以分区键为字段的 JSON 对象，外加保留键存放逐字转写全文
func transcribePrompt(form *model.Form) string {
	var b strings.Builder
	general := form.GeneralAIPrompt
	if general == "" {
		general = defaultGeneralAIPrompt
	}
	b.WriteString(general)
	b.WriteString("\n\nEscucha el audio y devuelve UN ÚNICO objeto JSON, sin texto adicional, con los siguientes campos:\n")
	b.WriteString(`- "` + reconcile.ReservedTranscriptKey + `": la transcripción literal y completa del audio.` + "\n")
	for i := range form.Sections {
		sec := &form.Sections[i]
		b.WriteString(`- "` + sec.SectionKey + `": ` + sec.Title)
		if sec.AIPrompt != "" {
			b.WriteString(". " + sec.AIPrompt)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nOmite los campos para los que el audio no aporta información. ")
	b.WriteString("Cada campo puede ser texto o un objeto anidado cuyas claves estén en camelCase.")
	return b.String()
}

func summarizePrompt(section *model.Section) string {
	return "Eres un asistente médico. Resume el siguiente contenido de la sección \"" + section.Title +
		"\" de forma breve y clínica. Devuelve únicamente un objeto JSON con el campo \"summary\"."
}

func diagnosisPrompt(section *model.Section) string {
	return "Eres un asistente médico. A partir del contenido de la sección \"" + section.Title +
		"\", sugiere posibles diagnósticos con su justificación breve. " +
		"Devuelve únicamente un objeto JSON con el campo \"diagnosis\"."
}

// audioDataURI 音频以 data URI 形式内联进多模态消息
func audioDataURI(audio []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(audio)
}
