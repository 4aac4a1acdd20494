package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const OperationMovieServiceHome = "/movieranker.v1.MovieService/Home"
const OperationMovieServiceShowEdit = "/movieranker.v1.MovieService/ShowEdit"
const OperationMovieServiceEdit = "/movieranker.v1.MovieService/Edit"
const OperationMovieServiceDelete = "/movieranker.v1.MovieService/Delete"
const OperationMovieServiceShowAdd = "/movieranker.v1.MovieService/ShowAdd"
const OperationMovieServiceAdd = "/movieranker.v1.MovieService/Add"
const OperationMovieServiceFind = "/movieranker.v1.MovieService/Find"

type MovieServiceHTTPServer interface {
	Home(context.Context, *HomeRequest) (*Page, error)
	ShowEdit(context.Context, *EditRequest) (*Page, error)
	Edit(context.Context, *EditRequest) (*Page, error)
	Delete(context.Context, *DeleteRequest) (*Page, error)
	ShowAdd(context.Context, *AddRequest) (*Page, error)
	Add(context.Context, *AddRequest) (*Page, error)
	Find(context.Context, *FindRequest) (*Page, error)
}

// RegisterMovieServiceHTTPServer mounts the pages on s.
func RegisterMovieServiceHTTPServer(s *http.Server, srv MovieServiceHTTPServer, views *Renderer) {
	r := s.Route("/")
	r.GET("/", pageHandler(views, OperationMovieServiceHome,
		func(http.Context) *HomeRequest { return &HomeRequest{} }, srv.Home))
	r.GET("/edit", pageHandler(views, OperationMovieServiceShowEdit,
		func(ctx http.Context) *EditRequest { return &EditRequest{ID: ctx.Query().Get("id")} }, srv.ShowEdit))
	r.POST("/edit", pageHandler(views, OperationMovieServiceEdit,
		func(ctx http.Context) *EditRequest {
			return &EditRequest{ID: ctx.Query().Get("id"), Form: ctx.Form()}
		}, srv.Edit))
	r.GET("/delete", pageHandler(views, OperationMovieServiceDelete,
		func(ctx http.Context) *DeleteRequest { return &DeleteRequest{ID: ctx.Query().Get("id")} }, srv.Delete))
	r.GET("/add", pageHandler(views, OperationMovieServiceShowAdd,
		func(http.Context) *AddRequest { return &AddRequest{} }, srv.ShowAdd))
	r.POST("/add", pageHandler(views, OperationMovieServiceAdd,
		func(ctx http.Context) *AddRequest { return &AddRequest{Form: ctx.Form()} }, srv.Add))
	findRequest := func(ctx http.Context) *FindRequest { return &FindRequest{ID: ctx.Query().Get("id")} }
	r.GET("/find", pageHandler(views, OperationMovieServiceFind, findRequest, srv.Find))
	r.POST("/find", pageHandler(views, OperationMovieServiceFind, findRequest, srv.Find))
}

// pageHandler binds a request, runs it through the server middleware under
// operation and writes the resulting page.
func pageHandler[T any](views *Renderer, operation string, bind func(http.Context) *T, call func(context.Context, *T) (*Page, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		in := bind(ctx)
		http.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*T))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return views.Write(ctx.Response(), ctx.Request(), out.(*Page))
	}
}
