package termui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aquarist-labs/glass/pkg/dialog"
	"github.com/aquarist-labs/glass/pkg/services"
)

// ServiceCreator creates services from the add-service dialogs.
type ServiceCreator interface {
	Create(ctx context.Context, req services.CreateRequest) (*services.Desc, error)
}

// Dialogs implements dialog.Dialogs on a terminal. Forms are printed to out;
// the add-service dialogs prompt on in.
type Dialogs struct {
	in      *bufio.Reader
	out     io.Writer
	creator ServiceCreator
	reveal  bool
}

var _ dialog.Dialogs = (*Dialogs)(nil)

// NewDialogs creates terminal dialogs. When reveal is set password fields
// are printed in clear.
func NewDialogs(in io.Reader, out io.Writer, creator ServiceCreator, reveal bool) *Dialogs {
	return &Dialogs{
		in:      bufio.NewReader(in),
		out:     out,
		creator: creator,
		reveal:  reveal,
	}
}

func (d *Dialogs) Open(ctx context.Context, form dialog.Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, RenderForm(form, d.reveal))
	return err
}

func (d *Dialogs) OpenCephfs(ctx context.Context) (bool, error) {
	return d.openCreate(ctx, services.TypeCephFS)
}

func (d *Dialogs) OpenNfs(ctx context.Context) (bool, error) {
	return d.openCreate(ctx, services.TypeNFS)
}

// openCreate prompts for the service parameters. An empty name cancels.
func (d *Dialogs) openCreate(ctx context.Context, t services.Type) (bool, error) {
	fmt.Fprintln(d.out, titleStyle.Render(fmt.Sprintf("Create %s service", t.Label())))

	name, err := d.prompt("Name")
	if err != nil {
		return false, err
	}
	if name == "" {
		return false, nil
	}

	sizeText, err := d.prompt("Size (e.g. 10GiB)")
	if err != nil {
		return false, err
	}
	size, err := humanize.ParseBytes(sizeText)
	if err != nil {
		return false, fmt.Errorf("%w: invalid size %q", services.ErrInvalidRequest, sizeText)
	}

	replicasText, err := d.prompt("Replicas [1]")
	if err != nil {
		return false, err
	}
	replicas := 1
	if replicasText != "" {
		replicas, err = strconv.Atoi(replicasText)
		if err != nil {
			return false, fmt.Errorf("%w: invalid replicas %q", services.ErrInvalidRequest, replicasText)
		}
	}

	desc, err := d.creator.Create(ctx, services.CreateRequest{
		Name:     name,
		Type:     t,
		Size:     size,
		Replicas: replicas,
	})
	if err != nil {
		return false, err
	}

	fmt.Fprintf(d.out, "Created %s service %s (%s)\n", desc.Type.Label(), desc.Name, humanize.IBytes(desc.Reservation))
	return true, nil
}

func (d *Dialogs) prompt(label string) (string, error) {
	fmt.Fprintf(d.out, "%s: ", label)
	line, err := d.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
