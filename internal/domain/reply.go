package domain

// Reply is the outcome of one conversational turn: either plain text or a
// named binary attachment with an accompanying caption.
type Reply struct {
	Text       string
	Attachment *Attachment
}

// Attachment is a file payload delivered through the messaging gateway.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
	Caption  string
}

// TextReply builds a plain-text reply.
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// FileReply builds an attachment reply.
func FileReply(filename, mimeType string, data []byte, caption string) Reply {
	return Reply{Attachment: &Attachment{
		Filename: filename,
		MIMEType: mimeType,
		Data:     data,
		Caption:  caption,
	}}
}

// IsFile reports whether the reply carries an attachment.
func (r Reply) IsFile() bool {
	return r.Attachment != nil
}
