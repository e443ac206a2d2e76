package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/r8y/channel-sync-go/internal/db/dberr"
	"github.com/r8y/channel-sync-go/internal/db/models"
)

// CommentRepository defines operations for managing comments.
type CommentRepository interface {
	// BulkUpsertComments persists one fetched comment page in a single
	// statement: new ids are inserted with flags unset, existing ids get
	// only their counters refreshed.
	BulkUpsertComments(ctx context.Context, ytVideoID string, comments []*models.Comment) error

	// GetComment retrieves a single comment by its YouTube id.
	GetComment(ctx context.Context, ytCommentID string) (*models.Comment, error)

	// GetCommentsByVideo retrieves all comments stored for a video.
	GetCommentsByVideo(ctx context.Context, ytVideoID string) ([]*models.Comment, error)

	// PatchCommentFlags writes the classification flags and marks the
	// comment processed. Flags are write-once: an already-processed comment
	// is left untouched.
	PatchCommentFlags(ctx context.Context, ytCommentID string, flags models.CommentFlags) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) BulkUpsertComments(ctx context.Context, ytVideoID string, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	// One multi-row statement, not N round-trips: comment pages run to 100
	// rows per video.
	query := `
		INSERT INTO comments (yt_comment_id, yt_video_id, text, author, published_at,
		                      like_count, reply_count, created_at, updated_at)
		SELECT c.yt_comment_id, $1, c.text, c.author, c.published_at,
		       c.like_count, c.reply_count, now(), now()
		FROM unnest($2::text[], $3::text[], $4::text[], $5::timestamptz[], $6::bigint[], $7::bigint[])
		     AS c(yt_comment_id, text, author, published_at, like_count, reply_count)
		ON CONFLICT (yt_comment_id) DO UPDATE
		SET like_count = EXCLUDED.like_count,
		    reply_count = EXCLUDED.reply_count,
		    updated_at = now()
	`

	// A repeated id within one page would make the statement affect the same
	// row twice, which Postgres rejects. First occurrence wins.
	ids := make([]string, 0, len(comments))
	texts := make([]string, 0, len(comments))
	authors := make([]string, 0, len(comments))
	publishedAts := make([]time.Time, 0, len(comments))
	likeCounts := make([]int64, 0, len(comments))
	replyCounts := make([]int64, 0, len(comments))
	seen := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.YTCommentID]; ok {
			continue
		}
		seen[c.YTCommentID] = struct{}{}
		ids = append(ids, c.YTCommentID)
		texts = append(texts, c.Text)
		authors = append(authors, c.Author)
		publishedAts = append(publishedAts, c.PublishedAt)
		likeCounts = append(likeCounts, c.LikeCount)
		replyCounts = append(replyCounts, c.ReplyCount)
	}

	_, err := r.pool.Exec(ctx, query, ytVideoID, ids, texts, authors, publishedAts, likeCounts, replyCounts)
	if err != nil {
		return dberr.WrapError(err, "bulk upsert comments")
	}

	return nil
}

func (r *commentRepository) GetComment(ctx context.Context, ytCommentID string) (*models.Comment, error) {
	query := commentSelect + ` WHERE yt_comment_id = $1`

	comment := &models.Comment{}
	err := r.pool.QueryRow(ctx, query, ytCommentID).Scan(commentFields(comment)...)
	if err != nil {
		return nil, dberr.WrapError(err, "get comment")
	}

	return comment, nil
}

func (r *commentRepository) GetCommentsByVideo(ctx context.Context, ytVideoID string) ([]*models.Comment, error) {
	query := commentSelect + ` WHERE yt_video_id = $1 ORDER BY published_at`

	rows, err := r.pool.Query(ctx, query, ytVideoID)
	if err != nil {
		return nil, dberr.WrapError(err, "get comments by video")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(commentFields(comment)...); err != nil {
			return nil, dberr.WrapError(err, "scan comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.WrapError(err, "iterate comments")
	}

	return comments, nil
}

func (r *commentRepository) PatchCommentFlags(ctx context.Context, ytCommentID string, flags models.CommentFlags) error {
	// is_processed = false in the predicate makes the terminal transition
	// happen exactly once; a repeat patch is a no-op, not an error.
	query := `
		UPDATE comments
		SET is_editing_mistake = $2,
		    is_sponsor_mention = $3,
		    is_question = $4,
		    is_positive_comment = $5,
		    is_processed = true,
		    updated_at = now()
		WHERE yt_comment_id = $1 AND is_processed = false
	`

	_, err := r.pool.Exec(ctx, query, ytCommentID,
		flags.IsEditingMistake,
		flags.IsSponsorMention,
		flags.IsQuestion,
		flags.IsPositiveComment,
	)
	if err != nil {
		return dberr.WrapError(err, "patch comment flags")
	}

	return nil
}

const commentSelect = `
	SELECT yt_comment_id, yt_video_id, text, author, published_at,
	       like_count, reply_count, is_editing_mistake, is_sponsor_mention,
	       is_question, is_positive_comment, is_processed, created_at, updated_at
	FROM comments`

func commentFields(c *models.Comment) []interface{} {
	return []interface{}{
		&c.YTCommentID,
		&c.YTVideoID,
		&c.Text,
		&c.Author,
		&c.PublishedAt,
		&c.LikeCount,
		&c.ReplyCount,
		&c.IsEditingMistake,
		&c.IsSponsorMention,
		&c.IsQuestion,
		&c.IsPositiveComment,
		&c.IsProcessed,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}
