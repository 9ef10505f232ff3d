// Package chatrepo stores support conversations and their messages.
package chatrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index:idx_conversations_customer_status"`
	AgentID    *uuid.UUID `gorm:"type:uuid"`
	Status     string     `gorm:"type:varchar(16);not null;index:idx_conversations_customer_status"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (ConversationDTO) TableName() string {
	return "conversations"
}

type MessageDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	SenderType     string    `gorm:"type:varchar(16);not null"`
	Body           string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null;index:idx_messages_conversation_created,priority:2"`
}

func (MessageDTO) TableName() string {
	return "messages"
}

// GormConversationRepository implements ports.ConversationRepository.
type GormConversationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormConversationRepository(db *gorm.DB, tracker aggregateTracker) *GormConversationRepository {
	return &GormConversationRepository{db: db, tracker: tracker}
}

func (r *GormConversationRepository) Add(ctx context.Context, c *chat.Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := conversationFromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	r.tracker.TrackAggregate(c.ID(), c)
	return nil
}

func (r *GormConversationRepository) Update(ctx context.Context, c *chat.Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := conversationFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&ConversationDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"agent_id":   dto.AgentID,
			"status":     dto.Status,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("conversation", c.ID().String())
	}
	r.tracker.TrackAggregate(c.ID(), c)
	return nil
}

func (r *GormConversationRepository) Get(ctx context.Context, id kernel.UUID) (*chat.Conversation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto ConversationDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("conversation", id.String())
		}
		return nil, err
	}
	return conversationToDomain(dto)
}

func (r *GormConversationRepository) GetActiveByCustomer(ctx context.Context, customerID kernel.UUID) (*chat.Conversation, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	var dto ConversationDTO
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID.Bytes(), string(chat.StatusActive)).
		Order("updated_at DESC").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("conversation", "active for "+customerID.String())
		}
		return nil, err
	}
	return conversationToDomain(dto)
}

func (r *GormConversationRepository) AddMessage(ctx context.Context, m chat.Message) error {
	dto := MessageDTO{
		ID:             m.ID.Bytes(),
		ConversationID: m.ConversationID.Bytes(),
		SenderID:       m.SenderID.Bytes(),
		SenderType:     string(m.SenderType),
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormConversationRepository) MarkRead(ctx context.Context, conversationID kernel.UUID, readerType chat.SenderType) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("conversation_id = ? AND sender_type <> ? AND NOT is_read", conversationID.Bytes(), string(readerType)).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *GormConversationRepository) ListMessages(ctx context.Context, conversationID kernel.UUID, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = -1
	}

	var dtos []MessageDTO
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID.Bytes()).
		Order("created_at, id").
		Limit(limit).
		Offset(offset).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]chat.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := messageToDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func conversationFromDomain(c *chat.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:         c.ID().Bytes(),
		CustomerID: c.CustomerID().Bytes(),
		AgentID:    kernel.BytesPtr(c.AgentID()),
		Status:     string(c.Status()),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

func conversationToDomain(dto ConversationDTO) (*chat.Conversation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	agentID, err := kernel.FromBytesPtr(dto.AgentID)
	if err != nil {
		return nil, err
	}
	return chat.RestoreConversation(id, customerID, agentID, chat.Status(dto.Status), dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}

func messageToDomain(dto MessageDTO) (chat.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return chat.Message{}, err
	}
	conversationID, err := kernel.UUIDFromBytes(dto.ConversationID[:])
	if err != nil {
		return chat.Message{}, err
	}
	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderType:     chat.SenderType(dto.SenderType),
		Body:           dto.Body,
		IsRead:         dto.IsRead,
		CreatedAt:      dto.CreatedAt.UTC(),
	}, nil
}
