package theme

type Typography struct {
	Title  int32
	Header int32
	Body   int32
	Small  int32
}

var Type = Typography{
	Title:  40,
	Header: 22,
	Body:   19,
	Small:  16,
}
