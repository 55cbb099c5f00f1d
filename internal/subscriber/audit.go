package subscriber

import (
	"context"
	"strings"

	"k8s.io/klog/v2"

	"github.com/bonicascribe/backend/internal/eventbus"
)

// RegisterAuditLog 在事件总线上挂审计日志
// 医疗数据的变更路径要可追溯，这里只记操作元数据，不记分区内容
func RegisterAuditLog(bus *eventbus.FormEventBus) {
	for _, eventType := range []eventbus.FormEventType{
		eventbus.FormEventSaved,
		eventbus.FormEventTranscriptionApplied,
		eventbus.FormEventSectionSummarized,
		eventbus.FormEventSectionReset,
	} {
		bus.Subscribe(eventType, logEvent)
	}
}

func logEvent(ctx context.Context, event eventbus.FormEvent) error {
	klog.Infof("[audit] event=%s user=%d form=%d sections=%s",
		event.Type, event.UserID, event.FormID, strings.Join(event.SectionKeys, ","))
	return nil
}
