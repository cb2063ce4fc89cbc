package kifu

func (i Token) String() string {
	switch i {
	case UndefinedToken:
		return "UndefinedToken"
	case CommentToken:
		return "CommentToken"
	case MoveToken:
		return "MoveToken"
	case ResultToken:
		return "ResultToken"
	}
	return "Token(?)"
}
