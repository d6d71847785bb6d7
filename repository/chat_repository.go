package repository

import (
	"context"
	"fmt"

	"trialcover-backend/models"

	"github.com/google/uuid"
)

// ChatRepository handles database operations for Q&A chat messages
type ChatRepository struct {
	db DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create stores a chat message
func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, project_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		message.UserID,
		message.ProjectID,
		message.Role,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt)

	return err
}

// ListByUserID retrieves a user's recent messages, oldest first, optionally
// scoped to one project's conversation
func (r *ChatRepository) ListByUserID(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, user_id, project_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if projectID != nil {
		query += fmt.Sprintf(" AND project_id = $%d", argIndex)
		args = append(args, *projectID)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		message := &models.ChatMessage{}
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.ProjectID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order for prompt assembly
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
