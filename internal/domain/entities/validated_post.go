package entities

type ValidatedPost struct {
	*Post
}

func NewValidatedPost(post *Post) (*ValidatedPost, error) {
	if err := post.validate(); err != nil {
		return nil, err
	}

	return &ValidatedPost{Post: post}, nil
}

func (vp *ValidatedPost) GetPost() *Post {
	return vp.Post
}
