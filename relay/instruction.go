package relay

import (
	"encoding/binary"

	"github.com/egaotan/anchor-memo/program"
	"github.com/egaotan/anchor-memo/svm"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

var SendMemoDiscriminator = program.Discriminator("send_memo")

type SendMemoArgs struct {
	Memo string
}

func EncodeSendMemo(memo string) ([]byte, error) {
	args, err := borsh.Serialize(SendMemoArgs{Memo: memo})
	if err != nil {
		return nil, errors.Wrap(err, "serialize send_memo args")
	}
	data := make([]byte, 0, program.DiscriminatorSize+len(args))
	data = append(data, SendMemoDiscriminator[:]...)
	return append(data, args...), nil
}

func DecodeSendMemo(data []byte) (*SendMemoArgs, error) {
	if len(data) < program.DiscriminatorSize {
		return nil, errors.Wrap(svm.ErrInvalidInstructionData, "instruction is missing")
	}
	var discriminator [program.DiscriminatorSize]byte
	copy(discriminator[:], data)
	if discriminator != SendMemoDiscriminator {
		return nil, errors.Wrap(svm.ErrInvalidInstructionData, "is not send_memo")
	}
	// borsh string: u32 little endian length, then the bytes
	body := data[program.DiscriminatorSize:]
	if len(body) < 4 || uint64(len(body)-4) < uint64(binary.LittleEndian.Uint32(body)) {
		return nil, errors.Wrap(svm.ErrInvalidInstructionData, "memo is truncated")
	}
	args := &SendMemoArgs{}
	if err := borsh.Deserialize(args, body); err != nil {
		return nil, errors.Wrap(svm.ErrInvalidInstructionData, err.Error())
	}
	return args, nil
}
