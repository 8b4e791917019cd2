package httpdelivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
	"github.com/gorilla/mux"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var signUpCommand command.SignUpCommand
	if err := decodeJSON(r, &signUpCommand); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.auth.SignUp(r.Context(), &signUpCommand)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginCommand command.LoginCommand
	if err := decodeJSON(r, &loginCommand); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.auth.Login(r.Context(), &loginCommand)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := s.feed.ListPosts(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserIdFromContext(r.Context())

	form, err := s.readPostForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.feed.CreatePost(r.Context(), &command.CreatePostCommand{
		CreatorId: userId,
		Title:     form.title,
		Content:   form.content,
		ImageUrl:  form.uploaded,
	})
	if err != nil {
		s.discardUpload(r.Context(), form.uploaded)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	result, err := s.feed.GetPost(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserIdFromContext(r.Context())

	form, err := s.readPostForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	imageUrl := form.image
	if form.uploaded != "" {
		imageUrl = form.uploaded
	}

	result, err := s.feed.UpdatePost(r.Context(), &command.UpdatePostCommand{
		RequesterId: userId,
		PostId:      mux.Vars(r)["postId"],
		Title:       form.title,
		Content:     form.content,
		ImageUrl:    imageUrl,
	})
	if err != nil {
		s.discardUpload(r.Context(), form.uploaded)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserIdFromContext(r.Context())

	result, err := s.feed.DeletePost(r.Context(), &command.DeletePostCommand{
		RequesterId: userId,
		PostId:      mux.Vars(r)["postId"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserIdFromContext(r.Context())

	result, err := s.feed.GetStatus(r.Context(), userId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var statusCommand command.UpdateStatusCommand
	if err := decodeJSON(r, &statusCommand); err != nil {
		s.writeError(w, r, err)
		return
	}
	statusCommand.UserId, _ = UserIdFromContext(r.Context())

	result, err := s.feed.UpdateStatus(r.Context(), &statusCommand)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// postForm carries image as the reference sent in a plain field and
// uploaded as the one produced by storing a file from this request.
type postForm struct {
	title    string
	content  string
	image    string
	uploaded string
}

// readPostForm accepts multipart bodies with an optional "image" file, or
// JSON bodies carrying an existing image reference.
func (s *Server) readPostForm(w http.ResponseWriter, r *http.Request) (postForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Image   string `json:"image"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return postForm{}, err
		}
		return postForm{title: body.Title, content: body.Content, image: body.Image}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return postForm{}, domainerrors.ErrInvalidRequestBody
	}
	form := postForm{
		title:   r.FormValue("title"),
		content: r.FormValue("content"),
		image:   r.FormValue("image"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return postForm{}, domainerrors.ErrInvalidRequestBody
	}
	defer file.Close()

	if s.images == nil {
		return postForm{}, domainerrors.Internal("image storage is not configured", nil)
	}
	ref, err := s.images.Save(r.Context(), header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, infrastructure.ErrUnsupportedImage) {
			return postForm{}, domainerrors.ErrUnsupportedImage
		}
		return postForm{}, domainerrors.Internal("store image", err)
	}
	form.uploaded = ref
	return form, nil
}

func (s *Server) discardUpload(ctx context.Context, ref string) {
	if ref == "" || s.images == nil {
		return
	}
	if err := s.images.Release(ctx, ref); err != nil {
		s.logger.Warn("failed to discard rejected upload",
			"event", "http_upload_discard_failed",
			"module", module,
			"image", ref,
			"error", err.Error(),
		)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domainerrors.ErrInvalidRequestBody
	}
	return nil
}
