package eventbus

type FormEventType string

const (
	FormEventSaved                FormEventType = "FormSaved"
	FormEventTranscriptionApplied FormEventType = "TranscriptionApplied"
	FormEventSectionSummarized    FormEventType = "SectionSummarized"
	FormEventSectionReset         FormEventType = "SectionReset"
)

// FormEvent 表单相关事件，用于审计日志等旁路处理
type FormEvent struct {
	Type        FormEventType
	UserID      uint
	FormID      uint
	SectionKeys []string // 本次受影响的分区键
}

func (e FormEvent) EventType() FormEventType { return e.Type }

type FormEventHandler = Handler[FormEvent]
type FormEventBus = Bus[FormEventType, FormEvent]

func NewFormEventBus() *FormEventBus {
	return NewBus[FormEventType, FormEvent]()
}
