package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/editor"
	"github.com/edudesk/contentdesk/internal/logging"
	"github.com/edudesk/contentdesk/internal/record"
	"github.com/edudesk/contentdesk/internal/value"
	"github.com/edudesk/contentdesk/internal/yeartable"
)

// Operations accepted by update_section.
const (
	opSet          = "set"
	opRaw          = "raw"
	opAppend       = "append"
	opInsert       = "insert"
	opSetItem      = "set_item"
	opRemoveItem   = "remove_item"
	opAddKey       = "add_key"
	opDeleteKey    = "delete_key"
	opRenameKey    = "rename_key"
	opTableInit    = "table_init"
	opTableAddRow  = "table_add_row"
	opTableAbove   = "table_insert_above"
	opTableBelow   = "table_insert_below"
	opTableDelRow  = "table_delete_row"
	opTableAddCol  = "table_add_column"
	opTableDelCol  = "table_delete_column"
	opTableSetCell = "table_set_cell"
	opTableMoveRow = "table_move_row"
	opTableMoveCol = "table_move_column"
	opYearAdd      = "year_add"
	opYearSetCell  = "year_set_cell"
	opYearDelete   = "year_delete"
	opCommit       = "commit"
	opCancel       = "cancel"
)

//nolint:gochecknoglobals // Fixed operation list shared by the tool definition and validation.
var updateOps = []string{
	opSet, opRaw, opAppend, opInsert, opSetItem, opRemoveItem,
	opAddKey, opDeleteKey, opRenameKey,
	opTableInit, opTableAddRow, opTableAbove, opTableBelow, opTableDelRow,
	opTableAddCol, opTableDelCol, opTableSetCell, opTableMoveRow, opTableMoveCol,
	opYearAdd, opYearSetCell, opYearDelete,
	opCommit, opCancel,
}

// UpdateSectionTool exposes a tool that edits the draft of one section.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var UpdateSectionTool = mcp.NewTool(
	"update_section",
	mcp.WithDescription(
		"Applies one edit to the draft of a section of the loaded record. The first edit opens "+
			"the draft; edits stay in the draft until op='commit' writes it into the record "+
			"('cancel' discards it). Use the 'path' values from get_section to target nested nodes. "+
			"Removing items, keys, rows, columns or years requires confirm=true; without it the "+
			"tool returns the confirmation prompt and changes nothing.",
	),
	mcp.WithString("key", mcp.Required(), mcp.Description("Section key from list_sections.")),
	mcp.WithString("op", mcp.Required(), mcp.Enum(updateOps...), mcp.Description(
		"Edit operation. set/raw: replace a scalar with text or any node with parsed JSON. "+
			"append/insert/set_item/remove_item: list items. add_key/delete_key/rename_key: group keys. "+
			"table_*: rows and columns of a list of records. year_*: year-keyed sections such as nirf.",
	)),
	mcp.WithString("path", mcp.Description("Optional: path of the node to edit inside the section (default: the section itself).")),
	mcp.WithString("text", mcp.Description("New text: scalar value, JSON for raw, list item, cell content or new key name for rename_key.")),
	mcp.WithString("name", mcp.Description("Key or column name for add_key, delete_key, rename_key, table_add_column, table_delete_column.")),
	mcp.WithString("column", mcp.Description("Column for table_set_cell and year_set_cell.")),
	mcp.WithNumber("index", mcp.Description("Item or row index (0-based).")),
	mcp.WithNumber("to", mcp.Description("Target index for table_move_row and table_move_column; 'index' is the source.")),
	mcp.WithBoolean("top", mcp.Description("table_add_row: add the row at the top instead of the bottom.")),
	mcp.WithBoolean("confirm", mcp.Description("Confirm a removal (default: false).")),
)

// errUnknownOp is returned for an operation outside updateOps.
var errUnknownOp = errors.New("unknown operation")

// updateParams holds parsed request parameters.
type updateParams struct {
	Key     string
	Op      string
	Path    editor.Path
	Text    string
	Name    string
	Column  string
	Index   int
	To      int
	Top     bool
	Confirm bool
}

type updateSectionResponse struct {
	Key     string       `json:"key"`
	Op      string       `json:"op"`
	Applied bool         `json:"applied"`
	Prompt  string       `json:"prompt,omitempty"`
	NewKey  string       `json:"new_key,omitempty"`
	Dirty   bool         `json:"dirty"`
	Draft   *editor.Node `json:"draft,omitempty"`
}

// RegisterUpdateSectionTool registers the update section tool with the MCP server.
func RegisterUpdateSectionTool(s *server.MCPServer, session *record.Session) {
	s.AddTool(UpdateSectionTool, withToolLogger("update_section", newUpdateSectionHandlerFunc(session, time.Now)))
}

func newUpdateSectionHandlerFunc(
	session *record.Session,
	now func() time.Time,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		params, err := parseUpdateParams(request)
		if err != nil {
			return toolError(ctx, logger, "invalid parameters", err)
		}
		logger.DebugContext(ctx, "Parameters",
			slog.String("key", params.Key),
			slog.String("op", params.Op),
			slog.String("path", params.Path.String()),
			slog.Bool("confirm", params.Confirm))

		resp := updateSectionResponse{Key: params.Key, Op: params.Op, Applied: true}

		switch params.Op {
		case opCommit:
			if err := session.CommitEdit(params.Key); err != nil {
				return toolError(ctx, logger, "failed to commit section "+params.Key, err)
			}
		case opCancel:
			session.CancelEdit(params.Key)
		default:
			edit := &sectionEdit{params: params, now: now}
			draft, err := session.EditDraft(params.Key, edit.apply)
			if err != nil {
				return toolError(ctx, logger, fmt.Sprintf("failed to apply %s to %s", params.Op, params.Key), err)
			}
			node := editor.Describe(params.Key, draft)
			resp.Draft = &node
			resp.Prompt = edit.prompt
			resp.Applied = edit.prompt == "" || params.Confirm
			resp.NewKey = edit.newKey
		}
		resp.Dirty = session.Dirty()

		logger.InfoContext(ctx, "Section updated",
			slog.String("key", params.Key),
			slog.String("op", params.Op),
			slog.Bool("applied", resp.Applied))

		return marshalResponse(ctx, logger, resp)
	}
}

func parseUpdateParams(request mcp.CallToolRequest) (updateParams, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return updateParams{}, fmt.Errorf("missing or invalid key parameter: %w", err)
	}
	op, err := request.RequireString("op")
	if err != nil {
		return updateParams{}, fmt.Errorf("missing or invalid op parameter: %w", err)
	}
	if !slices.Contains(updateOps, op) {
		return updateParams{}, fmt.Errorf("%w %q, expected one of %v", errUnknownOp, op, updateOps)
	}
	path, err := editor.ParsePath(request.GetString("path", ""))
	if err != nil {
		return updateParams{}, err
	}

	return updateParams{
		Key:     key,
		Op:      op,
		Path:    path,
		Text:    request.GetString("text", ""),
		Name:    request.GetString("name", ""),
		Column:  request.GetString("column", ""),
		Index:   request.GetInt("index", 0),
		To:      request.GetInt("to", 0),
		Top:     request.GetBool("top", false),
		Confirm: request.GetBool("confirm", false),
	}, nil
}

// sectionEdit applies one operation to a draft. Removals record their prompt and only
// take effect when confirmed.
type sectionEdit struct {
	params updateParams
	now    func() time.Time

	prompt string
	newKey string
}

func (e *sectionEdit) apply(draft value.Value) (value.Value, error) {
	p := e.params
	switch p.Op {
	case opSet:
		return editor.SetScalar(draft, p.Path, p.Text)
	case opRaw:
		return editor.SetRaw(draft, p.Path, p.Text)
	case opAppend:
		return editor.ListAppend(draft, p.Path)
	case opInsert:
		return editor.ListInsert(draft, p.Path, p.Index, value.String(p.Text))
	case opSetItem:
		return editor.ListSet(draft, p.Path, p.Index, p.Text)
	case opRemoveItem:
		pending, err := editor.ListRemove(draft, p.Path, p.Index)
		return resolve(e, pending, err)
	case opAddKey:
		next, key, err := editor.AddKey(draft, p.Path, p.Name)
		e.newKey = key
		return next, err
	case opDeleteKey:
		pending, err := editor.DeleteKey(draft, p.Path, p.Name)
		return resolve(e, pending, err)
	case opRenameKey:
		return editor.RenameKey(draft, p.Path, p.Name, p.Text)
	case opYearAdd, opYearSetCell, opYearDelete:
		return editor.Update(draft, p.Path, e.applyYear)
	default:
		return editor.Update(draft, p.Path, e.applyTable)
	}
}

func (e *sectionEdit) applyTable(node value.Value) (value.Value, error) {
	rows, ok := node.(value.List)
	if !ok {
		return node, fmt.Errorf("%s: %w", e.params.Op, editor.ErrWrongShape)
	}

	p := e.params
	if len(rows) == 0 && p.Op != opTableInit && p.Op != opTableAddRow {
		return node, fmt.Errorf("%s on an empty list: %w", p.Op, editor.ErrWrongShape)
	}
	t, err := editor.NewTable(rows)
	if err != nil {
		return node, fmt.Errorf("%s: %w", p.Op, err)
	}
	switch p.Op {
	case opTableInit:
		return t.Initialize(), nil
	case opTableAddRow:
		return t.AddRow(p.Top), nil
	case opTableAbove:
		return t.InsertAbove(p.Index)
	case opTableBelow:
		return t.InsertBelow(p.Index)
	case opTableDelRow:
		pending, err := t.DeleteRow(p.Index)
		return resolve(e, confirm.Map(pending, toValue[value.List]), err)
	case opTableAddCol:
		return t.AddColumn(p.Name)
	case opTableDelCol:
		pending, err := t.DeleteColumn(p.Name)
		return resolve(e, confirm.Map(pending, toValue[value.List]), err)
	case opTableSetCell:
		return t.SetCell(p.Index, p.Column, p.Text)
	case opTableMoveRow:
		return t.MoveRow(p.Index, p.To), nil
	case opTableMoveCol:
		return t.MoveColumn(p.Index, p.To), nil
	}
	return node, fmt.Errorf("%w %q", errUnknownOp, p.Op)
}

func (e *sectionEdit) applyYear(node value.Value) (value.Value, error) {
	g, ok := node.(value.Group)
	if !ok {
		return node, fmt.Errorf("%s: %w", e.params.Op, editor.ErrWrongShape)
	}

	p := e.params
	ed := yeartable.NewEditor(g)
	switch p.Op {
	case opYearAdd:
		return ed.AddYear(e.now()), nil
	case opYearSetCell:
		return ed.SetCell(p.Index, p.Column, p.Text)
	case opYearDelete:
		pending, err := ed.DeleteYear(p.Index)
		return resolve(e, confirm.Map(pending, toValue[value.Group]), err)
	}
	return node, fmt.Errorf("%w %q", errUnknownOp, p.Op)
}

func resolve(e *sectionEdit, pending confirm.Pending[value.Value], err error) (value.Value, error) {
	if err != nil {
		return pending.Current, err
	}
	e.prompt = pending.Prompt
	return pending.Resolve(e.params.Confirm), nil
}

func toValue[T value.Value](v T) value.Value {
	return v
}
