package authz

// Permission is a permission codename as stored with a group.
type Permission string

const (
	AddArticle    Permission = "news.add_article"
	ChangeArticle Permission = "news.change_article"
	DeleteArticle Permission = "news.delete_article"
)

func (p Permission) String() string {
	switch p {
	case AddArticle:
		return "can add article"
	case ChangeArticle:
		return "can change article"
	case DeleteArticle:
		return "can delete article"
	}
	return "unknown"
}

func (p Permission) Valid() bool {
	switch p {
	case AddArticle, ChangeArticle, DeleteArticle:
		return true
	default:
		return false
	}
}

const (
	RoleAuthor    = "author"
	RoleModerator = "moderator"
)

// DefaultRoles maps each built-in group to the permissions it grants.
func DefaultRoles() map[string][]Permission {
	return map[string][]Permission{
		RoleAuthor:    {AddArticle, ChangeArticle},
		RoleModerator: {ChangeArticle, DeleteArticle},
	}
}
