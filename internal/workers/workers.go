package workers

import (
	"github.com/dojotek/chatbot/internal/queue"
)

const (
	respondMaxAttempts   = 5
	deliverMaxAttempts   = 5
	knowledgeMaxAttempts = 3
)

// Specs wires the consumers to their queues. One queue per job type,
// bound by the job name.
func Specs(responder *Responder, deliverer *Deliverer, files *FileProcessor) []queue.ConsumerSpec {
	return []queue.ConsumerSpec{
		{
			Name:        "respond",
			Queue:       queue.JobProcessInboundMessage,
			BindingKey:  queue.JobProcessInboundMessage,
			MaxAttempts: respondMaxAttempts,
			Handle:      queue.JSONHandler(responder.Handle),
		},
		{
			Name:        "deliver",
			Queue:       queue.JobSendMessage,
			BindingKey:  queue.JobSendMessage,
			MaxAttempts: deliverMaxAttempts,
			Handle:      queue.JSONHandler(deliverer.Handle),
		},
		{
			Name:        "knowledge",
			Queue:       queue.JobProcessKnowledgeFile,
			BindingKey:  queue.JobProcessKnowledgeFile,
			MaxAttempts: knowledgeMaxAttempts,
			Handle:      queue.JSONHandler(files.Handle),
		},
	}
}
