package model

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/openchat-labs/bedrock-relay/common/logger"
)

// Content is one block of a message body. Each variant renders itself into
// zero or more Converse wire blocks; zero blocks is a valid outcome (for
// example an attachment in a format Bedrock does not accept).
type Content interface {
	ContentType() string
	ToConverseBlocks() []types.ContentBlock
}

// TextContent is a plain text block.
type TextContent struct {
	Body string `json:"body"`
}

func (c *TextContent) ContentType() string { return "text" }

func (c *TextContent) ToConverseBlocks() []types.ContentBlock {
	return []types.ContentBlock{
		&types.ContentBlockMemberText{Value: c.Body},
	}
}

var converseImageFormats = map[string]types.ImageFormat{
	"gif":  types.ImageFormatGif,
	"jpeg": types.ImageFormatJpeg,
	"png":  types.ImageFormatPng,
	"webp": types.ImageFormatWebp,
}

// ImageContent is an inline image with its declared media type, e.g. "image/png".
type ImageContent struct {
	MediaType string `json:"media_type"`
	Body      []byte `json:"body"`
}

func (c *ImageContent) ContentType() string { return "image" }

func (c *ImageContent) ToConverseBlocks() []types.ContentBlock {
	// e.g. "image/png" -> "png"
	format := "unknown"
	if idx := strings.Index(c.MediaType, "/"); idx >= 0 {
		format = c.MediaType[idx+1:]
	}

	wireFormat, ok := converseImageFormats[format]
	if !ok {
		logger.Logger.Warn("unsupported image format for converse",
			zap.String("media_type", c.MediaType))
		return nil
	}

	return []types.ContentBlock{
		&types.ContentBlockMemberImage{
			Value: types.ImageBlock{
				Format: wireFormat,
				Source: &types.ImageSourceMemberBytes{Value: c.Body},
			},
		},
	}
}

var converseDocumentFormats = map[string]types.DocumentFormat{
	"pdf":  types.DocumentFormatPdf,
	"csv":  types.DocumentFormatCsv,
	"doc":  types.DocumentFormatDoc,
	"docx": types.DocumentFormatDocx,
	"xls":  types.DocumentFormatXls,
	"xlsx": types.DocumentFormatXlsx,
	"html": types.DocumentFormatHtml,
	"txt":  types.DocumentFormatTxt,
	"md":   types.DocumentFormatMd,
}

var (
	invalidFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-\(\)\[\]]`)
	repeatedWhitespace   = regexp.MustCompile(`\s+`)
)

// toValidDocumentName strips characters Bedrock rejects in document names and
// collapses repeated whitespace.
func toValidDocumentName(fileName string) string {
	fileName = invalidFileNameChars.ReplaceAllString(fileName, "")
	fileName = repeatedWhitespace.ReplaceAllString(fileName, " ")
	return strings.TrimSpace(fileName)
}

// AttachmentContent is a document attached to a message, identified by file name.
type AttachmentContent struct {
	FileName string `json:"file_name"`
	Body     []byte `json:"body"`
}

func (c *AttachmentContent) ContentType() string { return "attachment" }

func (c *AttachmentContent) ToConverseBlocks() []types.ContentBlock {
	ext := strings.TrimPrefix(path.Ext(c.FileName), ".")
	name := strings.TrimSuffix(path.Base(c.FileName), path.Ext(c.FileName))

	format, ok := converseDocumentFormats[ext]
	if !ok {
		logger.Logger.Warn("unsupported document format for converse",
			zap.String("file_name", c.FileName),
			zap.String("format", ext))
		return nil
	}

	documentName := toValidDocumentName(name)
	var context string

	// Split PDFs arrive as "<base>_part_N" chunks; give Bedrock a descriptive
	// name and context so the parts read as one document.
	lowerName := strings.ToLower(name)
	if ext == "pdf" && (strings.Contains(lowerName, "part") || strings.Contains(lowerName, "chunk")) {
		context = "This is part of a multi-part PDF document"
		if _, num, ok := strings.Cut(name, "_part_"); ok {
			documentName = "Document Part " + num
			context = "This is part " + num + " of a multi-part PDF document"
		} else if _, num, ok := strings.Cut(name, "_chunk_"); ok {
			documentName = "Document Chunk " + num
			context = "This is part " + num + " of a multi-part PDF document"
		}
	}

	block := types.DocumentBlock{
		Format: format,
		Name:   aws.String(documentName),
		Source: &types.DocumentSourceMemberBytes{Value: c.Body},
	}
	if context != "" {
		block.Context = aws.String(context)
	}

	return []types.ContentBlock{
		&types.ContentBlockMemberDocument{Value: block},
	}
}

// S3AttachmentContent references a document stored in object storage. It must
// be resolved into an AttachmentContent by the caller before dispatch; an
// unresolved reference renders to nothing.
type S3AttachmentContent struct {
	FileName string `json:"file_name"`
	S3Key    string `json:"s3_key"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

func (c *S3AttachmentContent) ContentType() string { return "s3_attachment" }

func (c *S3AttachmentContent) ToConverseBlocks() []types.ContentBlock {
	logger.Logger.Warn("s3 attachment must be resolved before dispatch",
		zap.String("file_name", c.FileName),
		zap.String("s3_key", c.S3Key))
	return nil
}

// ToolUseBody identifies a model-issued tool invocation.
type ToolUseBody struct {
	ToolUseID string         `json:"tool_use_id"`
	Name      string         `json:"name"`
	Input     map[string]any `json:"input"`
}

// ToolUseContent records a model-issued tool invocation.
type ToolUseContent struct {
	Body ToolUseBody `json:"body"`
}

func (c *ToolUseContent) ContentType() string { return "toolUse" }

func (c *ToolUseContent) ToConverseBlocks() []types.ContentBlock {
	return []types.ContentBlock{
		&types.ContentBlockMemberToolUse{
			Value: types.ToolUseBlock{
				ToolUseId: aws.String(c.Body.ToolUseID),
				Name:      aws.String(c.Body.Name),
				Input:     document.NewLazyDocument(c.Body.Input),
			},
		},
	}
}

// ReasoningContent is a model deliberation trace. Signed traces render as
// reasoning text; unsigned traces with redacted bytes render as redacted
// content.
type ReasoningContent struct {
	Text            string `json:"text"`
	Signature       string `json:"signature"`
	RedactedContent []byte `json:"redacted_content"`
}

func (c *ReasoningContent) ContentType() string { return "reasoning" }

func (c *ReasoningContent) ToConverseBlocks() []types.ContentBlock {
	if c.Text != "" {
		return []types.ContentBlock{
			&types.ContentBlockMemberReasoningContent{
				Value: &types.ReasoningContentBlockMemberReasoningText{
					Value: types.ReasoningTextBlock{
						Text:      aws.String(c.Text),
						Signature: aws.String(c.Signature),
					},
				},
			},
		}
	}
	return []types.ContentBlock{
		&types.ContentBlockMemberReasoningContent{
			Value: &types.ReasoningContentBlockMemberRedactedContent{
				Value: c.RedactedContent,
			},
		},
	}
}

// UnmarshalContents decodes a persisted content list, dispatching on the
// "content_type" discriminator used by the storage layer.
func UnmarshalContents(data []byte) ([]Content, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrap(err, "decode content list")
	}

	contents := make([]Content, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			ContentType string `json:"content_type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, errors.Wrap(err, "decode content discriminator")
		}

		var c Content
		switch head.ContentType {
		case "text":
			c = &TextContent{}
		case "image":
			c = &ImageContent{}
		case "attachment":
			c = &AttachmentContent{}
		case "s3_attachment":
			c = &S3AttachmentContent{}
		case "toolUse":
			c = &ToolUseContent{}
		case "toolResult":
			c = &ToolResultContent{}
		case "reasoning":
			c = &ReasoningContent{}
		default:
			return nil, errors.Errorf("unknown content type %q", head.ContentType)
		}
		if err := json.Unmarshal(raw, c); err != nil {
			return nil, errors.Wrapf(err, "decode %s content", head.ContentType)
		}
		contents = append(contents, c)
	}

	return contents, nil
}
