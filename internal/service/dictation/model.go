package dictation

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"
)

// Generator 口述转写所需的最小模型能力
// 上层服务只依赖这个接口，测试用桩实现替换
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatModel 封装 Eino 原生的 OpenAI ChatModel
// 转写走多模态消息（音频作为消息部件），摘要/诊断走纯文本
type ChatModel struct {
	chatModel model.ToolCallingChatModel
}

// NewChatModel 创建 ChatModel
// baseURL 为空时使用默认 OpenAI 地址
func NewChatModel(apiKey, baseURL, modelName string, maxTokens int) (*ChatModel, error) {
	klog.V(6).Infof("[ChatModel] 创建 OpenAI ChatModel: model=%s, baseURL=%s", modelName, baseURL)

	config := &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	}
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if maxTokens > 0 {
		config.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(context.Background(), config)
	if err != nil {
		klog.Errorf("[ChatModel] 创建 ChatModel 失败: %v", err)
		return nil, err
	}
	return &ChatModel{chatModel: chatModel}, nil
}

// Generate 同步生成响应
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	klog.V(6).Infof("[ChatModel] Generate 开始: messageCount=%d", len(input))

	resp, err := m.chatModel.Generate(ctx, input, opts...)
	if err != nil {
		klog.Errorf("[ChatModel] Generate 失败: %v", err)
		return nil, err
	}

	klog.V(6).Infof("[ChatModel] Generate 完成: responseLength=%d", len(resp.Content))
	return resp, nil
}

// Stream 流式生成
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (
	*schema.StreamReader[*schema.Message], error) {
	return m.chatModel.Stream(ctx, input, opts...)
}
