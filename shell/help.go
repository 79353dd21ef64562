package shell

import (
	"embed"
	"io"
)

//go:embed helptext
var helpFS embed.FS

func usage(w io.Writer) {
	dat, err := helpFS.ReadFile("helptext/usage.txt")
	if err != nil {
		io.WriteString(w, "Error loading helptext: "+err.Error())
		return
	}
	w.Write(dat)
}

func usageTopic(w io.Writer, topic string) {
	dat, err := helpFS.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		io.WriteString(w, "There is no help text for the topic "+topic+"\n")
		return
	}
	w.Write(dat)
}

func (sc *Controller) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		usage(sc.w)
		return nil, nil
	}
	usageTopic(sc.w, cmd.args[0])
	return nil, nil
}
