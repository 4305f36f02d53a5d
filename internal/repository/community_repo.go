package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"app/internal/model"
	"app/internal/sheets"
)

var (
	forumHeaders   = []interface{}{"ID", "Nombre", "Descripción", "Icono", "Categoría"}
	postHeaders    = []interface{}{"ID", "ID Foro", "Email", "Título", "Contenido", "Fecha", "Likes"}
	commentHeaders = []interface{}{"ID", "ID Post", "Email", "Contenido", "Fecha"}
)

// defaultForums seeds the catalog the first time the community is opened.
var defaultForums = []model.Forum{
	{ID: "general", Name: "General", Description: "Conversaciones sobre la crianza del día a día", Icon: "💬", Category: "general"},
	{ID: "esfinteres", Name: "Control de esfínteres", Description: "Dudas y logros en la retirada del pañal", Icon: "🚽", Category: "esfinteres"},
	{ID: "alimentacion", Name: "Alimentación", Description: "Lactancia, biberones y primeros sólidos", Icon: "🍼", Category: "alimentacion"},
	{ID: "sueno", Name: "Sueño", Description: "Rutinas, siestas y noches completas", Icon: "😴", Category: "sueno"},
	{ID: "desarrollo", Name: "Desarrollo", Description: "Hitos, crecimiento y estimulación", Icon: "🌱", Category: "desarrollo"},
}

// CommunityRepository stores the forum catalog, posts and comments in three
// lazily created sheets.
type CommunityRepository interface {
	// GetForums returns the catalog, seeding the default forums when the
	// sheet is empty or newly created.
	GetForums(ctx context.Context) ([]model.Forum, error)
	GetPostsByForum(ctx context.Context, forumID string) ([]model.Post, error)
	CreatePost(ctx context.Context, p *model.Post) error
	GetCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
	GetCommentsByUser(ctx context.Context, email string) ([]model.Comment, error)
	CreateComment(ctx context.Context, c *model.Comment) error
}

type communityRepo struct {
	api sheets.RangeAPI
}

func NewCommunityRepo(api sheets.RangeAPI) CommunityRepository {
	return &communityRepo{api: api}
}

func (r *communityRepo) GetForums(ctx context.Context) ([]model.Forum, error) {
	rows, err := fetchOrCreate(ctx, r.api, forumSheet, forumRange, forumHeaders)
	if err != nil {
		return nil, fmt.Errorf("reading forum sheet: %w", err)
	}
	forums := []model.Forum{}
	for i, row := range rows {
		if i == 0 || cellString(row, 0) == "" {
			continue
		}
		forums = append(forums, model.Forum{
			ID:          cellString(row, 0),
			Name:        cellString(row, 1),
			Description: cellString(row, 2),
			Icon:        cellString(row, 3),
			Category:    cellString(row, 4),
		})
	}
	if len(forums) > 0 {
		return forums, nil
	}

	seed := make([][]interface{}, 0, len(defaultForums))
	for _, f := range defaultForums {
		seed = append(seed, []interface{}{f.ID, f.Name, f.Description, f.Icon, f.Category})
	}
	if err := r.api.AppendRange(ctx, forumRange, seed); err != nil {
		return nil, fmt.Errorf("seeding default forums: %w", err)
	}
	return append([]model.Forum{}, defaultForums...), nil
}

func (r *communityRepo) GetPostsByForum(ctx context.Context, forumID string) ([]model.Post, error) {
	rows, err := fetchOrCreate(ctx, r.api, postSheet, postRange, postHeaders)
	if err != nil {
		return nil, fmt.Errorf("reading post sheet: %w", err)
	}
	posts := []model.Post{}
	for i, row := range rows {
		if i == 0 || cellString(row, 1) != forumID {
			continue
		}
		posts = append(posts, *decodePostRow(row))
	}
	return posts, nil
}

func (r *communityRepo) CreatePost(ctx context.Context, p *model.Post) error {
	if err := ensureSheet(ctx, r.api, postSheet, postHeaders); err != nil {
		return fmt.Errorf("initializing post sheet: %w", err)
	}
	row := []interface{}{p.ID, p.ForumID, p.UserEmail, p.Title, p.Content, p.Timestamp, strconv.Itoa(p.Likes)}
	return r.api.AppendRange(ctx, postRange, [][]interface{}{row})
}

func (r *communityRepo) GetCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return r.comments(ctx, func(c *model.Comment) bool { return c.PostID == postID })
}

func (r *communityRepo) GetCommentsByUser(ctx context.Context, email string) ([]model.Comment, error) {
	return r.comments(ctx, func(c *model.Comment) bool { return strings.EqualFold(c.UserEmail, email) })
}

func (r *communityRepo) CreateComment(ctx context.Context, c *model.Comment) error {
	if err := ensureSheet(ctx, r.api, commentSheet, commentHeaders); err != nil {
		return fmt.Errorf("initializing comment sheet: %w", err)
	}
	row := []interface{}{c.ID, c.PostID, c.UserEmail, c.Content, c.Timestamp}
	return r.api.AppendRange(ctx, commentRange, [][]interface{}{row})
}

func (r *communityRepo) comments(ctx context.Context, keep func(*model.Comment) bool) ([]model.Comment, error) {
	rows, err := fetchOrCreate(ctx, r.api, commentSheet, commentRange, commentHeaders)
	if err != nil {
		return nil, fmt.Errorf("reading comment sheet: %w", err)
	}
	comments := []model.Comment{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		c := &model.Comment{
			ID:        cellString(row, 0),
			PostID:    cellString(row, 1),
			UserEmail: cellString(row, 2),
			Content:   cellString(row, 3),
			Timestamp: cellString(row, 4),
		}
		if keep(c) {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func decodePostRow(row []interface{}) *model.Post {
	return &model.Post{
		ID:        cellString(row, 0),
		ForumID:   cellString(row, 1),
		UserEmail: cellString(row, 2),
		Title:     cellString(row, 3),
		Content:   cellString(row, 4),
		Timestamp: cellString(row, 5),
		Likes:     cellInt(row, 6),
	}
}
