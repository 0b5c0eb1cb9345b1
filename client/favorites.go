package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/arcash/cache"
	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/paginate"
	"github.com/rs/zerolog/log"
)

const favoritesCacheName = "favorites"

// Favorites returns the user's favorite contacts, from the cache unless force is set.
func (c *Client) Favorites(ctx context.Context, force bool) ([]model.Favorite, error) {
	if _, err := c.accountID(ctx); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, favoritesCacheName, c.cacheTTL, force, func(ctx context.Context) ([]model.Favorite, error) {
		var favs []model.Favorite
		if err := c.do(ctx, c.gated, http.MethodGet, "/favorites", nil, &favs); err != nil {
			return nil, err
		}
		return favs, nil
	})
}

func (c *Client) FavoritePages(ctx context.Context, force bool) (*paginate.Paginator[model.Favorite], error) {
	favs, err := c.Favorites(ctx, force)
	if err != nil {
		return nil, err
	}
	return paginate.New(favs, c.pageSize), nil
}

func (c *Client) Favorite(ctx context.Context, id string) (model.Favorite, error) {
	var fav model.Favorite
	if err := c.do(ctx, c.gated, http.MethodGet, "/favorites/"+url.PathEscape(id), nil, &fav); err != nil {
		return model.Favorite{}, err
	}
	return fav, nil
}

// CreateFavorite adds a contact. A duplicate alias is reported as ErrConflict.
func (c *Client) CreateFavorite(ctx context.Context, req model.FavoriteRequest) (model.Favorite, error) {
	if err := req.Validate(); err != nil {
		return model.Favorite{}, invalid(err)
	}
	var fav model.Favorite
	if err := c.do(ctx, c.gated, http.MethodPost, "/favorites", req, &fav); err != nil {
		return model.Favorite{}, err
	}
	c.invalidateFavorites(ctx)
	return fav, nil
}

func (c *Client) UpdateFavorite(ctx context.Context, id string, req model.FavoriteRequest) (model.Favorite, error) {
	if err := req.Validate(); err != nil {
		return model.Favorite{}, invalid(err)
	}
	var fav model.Favorite
	if err := c.do(ctx, c.gated, http.MethodPut, "/favorites/"+url.PathEscape(id), req, &fav); err != nil {
		return model.Favorite{}, err
	}
	c.invalidateFavorites(ctx)
	return fav, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id string) error {
	if err := c.do(ctx, c.gated, http.MethodDelete, "/favorites/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.invalidateFavorites(ctx)
	return nil
}

func (c *Client) invalidateFavorites(ctx context.Context) {
	if err := c.cache.Invalidate(ctx, favoritesCacheName); err != nil {
		log.Err(err).Msg("invalidating favorites cache failed")
	}
}
