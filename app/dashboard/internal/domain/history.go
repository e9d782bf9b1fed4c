package domain

import "github.com/iWorld-y/topic_radar/app/topic_radar/pkg/model"

// TopicHistory 选题历史记录
type TopicHistory = model.TopicHistory

// NewTopicHistory 由报告快照生成待保存的历史记录
func NewTopicHistory(s *model.Snapshot) *TopicHistory {
	return model.NewTopicHistory(s)
}
