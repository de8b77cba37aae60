package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/id"
	"aquaops/internal/domain/audit"
	"aquaops/internal/domain/ledger"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change set size above which rows are compressed.
const DefaultCompressThreshold = 10 * 1024

type auditRow struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            string          `db:"action"`
	ActorID           string          `db:"actor_id"`
	RequestID         string          `db:"request_id"`
	Changes           []byte          `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditLog stores ledger audit records in sys_audit.
type AuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var (
	_ ledger.AuditWriter = (*AuditLog)(nil)
	_ audit.Reader       = (*AuditLog)(nil)
)

// NewAuditLog creates the audit log with zstd compression for large change sets.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// Write records an audit entry in the transaction carried by ctx.
func (l *AuditLog) Write(ctx context.Context, record ledger.AuditRecord) error {
	changes, err := json.Marshal(record.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	row := auditRow{
		ID:              id.New(),
		EntityType:      record.EntityType,
		EntityID:        record.EntityID,
		Action:          record.Action,
		ActorID:         appctx.GetActorID(ctx),
		RequestID:       appctx.GetRequestID(ctx),
		CreatedAt:       time.Now().UTC(),
		CompressionAlgo: CompressionNone,
	}
	row.Changes, row.ChangesCompressed, row.CompressionAlgo = l.compress(changes)

	_, err = l.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, actor_id, request_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		row.ID, row.EntityType, row.EntityID, row.Action, row.ActorID, row.RequestID,
		row.Changes, row.ChangesCompressed, row.CompressionAlgo, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (l *AuditLog) compress(changes []byte) ([]byte, []byte, CompressionAlgo) {
	if len(changes) <= l.compressThreshold {
		return changes, nil, CompressionNone
	}
	return nil, l.encoder.EncodeAll(changes, nil), CompressionZstd
}

func (l *AuditLog) decompress(row auditRow) ([]byte, error) {
	if row.CompressionAlgo != CompressionZstd || len(row.ChangesCompressed) == 0 {
		return row.Changes, nil
	}
	return l.decoder.DecodeAll(row.ChangesCompressed, nil)
}

// History retrieves audit entries for an entity, newest first.
func (l *AuditLog) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	var rows []auditRow
	err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, `
		SELECT id, entity_type, entity_id, action, actor_id, request_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		raw, err := l.decompress(row)
		if err != nil {
			return nil, fmt.Errorf("decompress changes %s: %w", row.ID, err)
		}
		var changes map[string]any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &changes); err != nil {
				return nil, fmt.Errorf("decode changes %s: %w", row.ID, err)
			}
		}
		entries = append(entries, audit.Entry{
			ID:         row.ID,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			ActorID:    row.ActorID,
			RequestID:  row.RequestID,
			Changes:    changes,
			CreatedAt:  row.CreatedAt,
		})
	}
	return entries, nil
}
